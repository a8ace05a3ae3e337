package auth

import "github.com/dmitrymomot/cmdkit/core/command"

// Commands returns factories for every auth command, ready for registration:
//
//	bus := command.NewBus(command.WithCommands(auth.Commands(repo)...))
func Commands(repo UserRepository) []command.Factory {
	return []command.Factory{
		func() command.Command { return NewRegisterCommand(repo) },
		func() command.Command { return NewChangeEmailCommand(repo) },
		func() command.Command { return NewChangePasswordCommand(repo) },
		func() command.Command { return NewLoginCommand(repo) },
	}
}
