// Package auth provides the user account domain: the User entity, its
// repository port, and the account commands (register, login, change email,
// change password) built for dispatch through the command bus.
//
// Commands capture their inverse data during Execute, so register and the
// change commands participate in undo/redo. Login is intentionally not
// undoable.
//
// Usage:
//
//	repo := auth.NewMemoryUserRepository()
//	bus := command.NewBus(command.WithCommands(auth.Commands(repo)...))
//
//	res := bus.Execute(ctx, "RegisterUser", auth.RegisterInput{
//	    Email:    "jane@example.com",
//	    Password: "correct-horse-battery",
//	}, command.Metadata{ActorID: "admin-1"})
package auth
