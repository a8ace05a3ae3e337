// Package config provides type-safe environment variable loading with
// caching. Each configuration type is loaded once per process and cached for
// subsequent calls, so independently constructed components observe the same
// values.
//
// A .env file, when present, is loaded on first use. Parsing uses the
// caarlos0/env struct tags:
//
//	type BusConfig struct {
//		HistoryCapacity int           `env:"BUS_HISTORY_CAPACITY" envDefault:"100"`
//		ExecTimeout     time.Duration `env:"BUS_EXEC_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg BusConfig
//	config.MustLoad(&cfg)
package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache      sync.Map // reflect.Type -> parsed struct value
	loadDotenv sync.Once
)

// Load parses environment variables into cfg. The first successful load of
// each type is cached; later calls return the cached value even if the
// environment has changed since.
func Load[T any](cfg *T) error {
	loadDotenv.Do(func() {
		// Missing .env files are expected outside local development.
		_ = godotenv.Load()
	})

	t := reflect.TypeOf(*cfg)
	if v, ok := cache.Load(t); ok {
		*cfg = v.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: failed to load %s: %w", t.String(), err)
	}

	actual, _ := cache.LoadOrStore(t, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is Load that panics on failure, for use during startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
