// Package pg provides PostgreSQL connection management with migrations and
// health checking, plus the pgx-backed user repository.
//
// Connect wraps the pgx driver with application-level retry logic so services
// survive transient network issues during startup. Migrate applies the
// embedded schema migrations using goose. Healthcheck returns a ping function
// suitable for readiness probes.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		log.Fatal(err)
//	}
//
//	repo := pg.NewUserRepository(pool)
//	bus := command.NewBus(command.WithCommands(auth.Commands(repo)...))
//
// # Error Handling
//
// The package exposes classification helpers for common PostgreSQL error
// patterns:
//
//	pg.IsNotFoundError(err)            // pgx.ErrNoRows
//	pg.IsDuplicateKeyError(err)        // unique constraint violations
//	pg.IsForeignKeyViolationError(err) // referential integrity violations
//	pg.IsTxClosedError(err)            // closed transaction usage
//
// The user repository translates these into the auth package sentinel errors,
// so commands stay unaware of the backing store.
package pg
