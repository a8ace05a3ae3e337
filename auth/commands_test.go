package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/cmdkit/auth"
	"github.com/dmitrymomot/cmdkit/core/command"
	"github.com/dmitrymomot/cmdkit/core/event"
	"github.com/dmitrymomot/cmdkit/core/fault"
)

func newAuthBus(repo auth.UserRepository) *command.Bus {
	return command.NewBus(
		command.WithBusLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		command.WithCommands(auth.Commands(repo)...),
	)
}

func registerUser(t *testing.T, bus *command.Bus, email, password string) auth.RegisterOutput {
	t.Helper()
	res := bus.Execute(context.Background(), "RegisterUser", auth.RegisterInput{
		Email:    email,
		Password: password,
	}, command.Metadata{})
	require.True(t, res.Success, "register failed: %+v", res.Error)
	return res.Data.(auth.RegisterOutput)
}

func TestRegisterCommand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		bus := newAuthBus(repo)

		var registered []event.Event
		bus.Events().SubscribeFunc("UserRegistered", func(_ context.Context, evt event.Event) error {
			registered = append(registered, evt)
			return nil
		})

		out := registerUser(t, bus, "Jane@Example.com", "s3cret-pass")

		user, err := repo.GetByID(ctx, out.UserID)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email, "email is normalized")
		assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("s3cret-pass")))

		require.Len(t, registered, 1)
		assert.Equal(t, auth.UserRegistered{UserID: out.UserID, Email: "jane@example.com"}, registered[0].Payload)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())
		registerUser(t, bus, "taken@example.com", "s3cret-pass")

		res := bus.Execute(ctx, "RegisterUser", auth.RegisterInput{
			Email:    "taken@example.com",
			Password: "another-pass",
		}, command.Metadata{})
		require.False(t, res.Success)
		assert.Equal(t, fault.CategoryBusinessRule, res.Error.Category)
		assert.Equal(t, auth.CodeEmailTaken, res.Error.Code)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())

		res := bus.Execute(ctx, "RegisterUser", auth.RegisterInput{
			Email:    "not-an-email",
			Password: "short",
		}, command.Metadata{})
		require.False(t, res.Success)
		assert.Equal(t, fault.CategoryValidation, res.Error.Category)
		assert.Equal(t, fault.CodeInvalidInput, res.Error.Code)
	})
}

func TestLoginCommand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("verifies credentials", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())
		out := registerUser(t, bus, "login@example.com", "s3cret-pass")

		var logins int
		bus.Events().SubscribeFunc("UserLoggedIn", func(context.Context, event.Event) error {
			logins++
			return nil
		})

		res := bus.Execute(ctx, "LoginUser", auth.LoginInput{
			Email:    "login@example.com",
			Password: "s3cret-pass",
		}, command.Metadata{})
		require.True(t, res.Success)
		assert.Equal(t, auth.LoginOutput{UserID: out.UserID, Email: "login@example.com"}, res.Data)
		assert.Equal(t, 1, logins)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())
		registerUser(t, bus, "probe@example.com", "s3cret-pass")

		wrongPass := bus.Execute(ctx, "LoginUser", auth.LoginInput{
			Email:    "probe@example.com",
			Password: "wrong-pass",
		}, command.Metadata{})
		unknown := bus.Execute(ctx, "LoginUser", auth.LoginInput{
			Email:    "nobody@example.com",
			Password: "wrong-pass",
		}, command.Metadata{})

		for _, res := range []command.Result{wrongPass, unknown} {
			require.False(t, res.Success)
			assert.Equal(t, fault.CategoryAuthentication, res.Error.Category)
			assert.Equal(t, auth.CodeInvalidCredentials, res.Error.Code)
		}
		assert.Equal(t, wrongPass.Error.Message, unknown.Error.Message)
	})

	t.Run("login is not recorded in history", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())
		registerUser(t, bus, "nohistory@example.com", "s3cret-pass")
		require.True(t, bus.Execute(ctx, "LoginUser", auth.LoginInput{
			Email:    "nohistory@example.com",
			Password: "s3cret-pass",
		}, command.Metadata{}).Success)

		history := bus.History()
		require.Len(t, history, 1)
		assert.Equal(t, "RegisterUser", history[0].Command)
	})
}

func TestChangeEmailCommand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("changes and restores the address", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		bus := newAuthBus(repo)
		out := registerUser(t, bus, "before@example.com", "s3cret-pass")

		res := bus.Execute(ctx, "ChangeUserEmail", auth.ChangeEmailInput{
			UserID:   out.UserID,
			NewEmail: "after@example.com",
		}, command.Metadata{})
		require.True(t, res.Success)
		assert.Equal(t, auth.ChangeEmailOutput{UserID: out.UserID, Email: "after@example.com"}, res.Data)

		require.True(t, bus.Undo(ctx).Success)
		user, err := repo.GetByID(ctx, out.UserID)
		require.NoError(t, err)
		assert.Equal(t, "before@example.com", user.Email)

		require.True(t, bus.Redo(ctx).Success)
		user, err = repo.GetByID(ctx, out.UserID)
		require.NoError(t, err)
		assert.Equal(t, "after@example.com", user.Email)
	})

	t.Run("rejects an address owned by another user", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())
		registerUser(t, bus, "owner@example.com", "s3cret-pass")
		out := registerUser(t, bus, "mover@example.com", "s3cret-pass")

		res := bus.Execute(ctx, "ChangeUserEmail", auth.ChangeEmailInput{
			UserID:   out.UserID,
			NewEmail: "owner@example.com",
		}, command.Metadata{})
		require.False(t, res.Success)
		assert.Equal(t, auth.CodeEmailTaken, res.Error.Code)
	})

	t.Run("rejects an unchanged address", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())
		out := registerUser(t, bus, "same@example.com", "s3cret-pass")

		res := bus.Execute(ctx, "ChangeUserEmail", auth.ChangeEmailInput{
			UserID:   out.UserID,
			NewEmail: "Same@Example.com",
		}, command.Metadata{})
		require.False(t, res.Success)
		assert.Equal(t, auth.CodeEmailUnchanged, res.Error.Code)
	})

	t.Run("fails for unknown users", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())
		res := bus.Execute(ctx, "ChangeUserEmail", auth.ChangeEmailInput{
			UserID:   "missing",
			NewEmail: "new@example.com",
		}, command.Metadata{})
		require.False(t, res.Success)
		assert.Equal(t, fault.CodeNotFound, res.Error.Code)
	})
}

func TestChangePasswordCommand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rotates the hash and undo restores it", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())
		out := registerUser(t, bus, "rotate@example.com", "old-password")

		res := bus.Execute(ctx, "ChangeUserPassword", auth.ChangePasswordInput{
			UserID:          out.UserID,
			CurrentPassword: "old-password",
			NewPassword:     "new-password",
		}, command.Metadata{})
		require.True(t, res.Success)

		login := func(password string) bool {
			return bus.Execute(ctx, "LoginUser", auth.LoginInput{
				Email:    "rotate@example.com",
				Password: password,
			}, command.Metadata{}).Success
		}
		assert.False(t, login("old-password"))
		assert.True(t, login("new-password"))

		require.True(t, bus.Undo(ctx).Success)
		assert.True(t, login("old-password"))
		assert.False(t, login("new-password"))
	})

	t.Run("requires the current password", func(t *testing.T) {
		t.Parallel()

		bus := newAuthBus(auth.NewMemoryUserRepository())
		out := registerUser(t, bus, "strict@example.com", "old-password")

		res := bus.Execute(ctx, "ChangeUserPassword", auth.ChangePasswordInput{
			UserID:          out.UserID,
			CurrentPassword: "guessed-wrong",
			NewPassword:     "new-password",
		}, command.Metadata{})
		require.False(t, res.Success)
		assert.Equal(t, fault.CategoryAuthentication, res.Error.Category)
		assert.Equal(t, auth.CodeInvalidCredentials, res.Error.Code)
	})
}

func TestRegisterUndoRedoScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := auth.NewMemoryUserRepository()
	bus := newAuthBus(repo)

	var names []string
	for _, name := range []string{"UserRegistered", "UserRemoved", "CommandUndone", "CommandRedone"} {
		bus.Events().SubscribeFunc(name, func(_ context.Context, evt event.Event) error {
			names = append(names, evt.Name)
			return nil
		})
	}

	out := registerUser(t, bus, "scenario@example.com", "s3cret-pass")

	require.True(t, bus.Undo(ctx).Success)
	_, err := repo.GetByID(ctx, out.UserID)
	assert.ErrorIs(t, err, auth.ErrUserNotFound, "undo deletes the account")

	redo := bus.Redo(ctx)
	require.True(t, redo.Success)
	assert.Equal(t, auth.RegisterOutput{UserID: out.UserID, Email: "scenario@example.com"}, redo.Data,
		"redo restores the account with the original id")

	user, err := repo.GetByID(ctx, out.UserID)
	require.NoError(t, err)
	assert.Equal(t, "scenario@example.com", user.Email)

	res := bus.Execute(ctx, "LoginUser", auth.LoginInput{
		Email:    "scenario@example.com",
		Password: "s3cret-pass",
	}, command.Metadata{})
	assert.True(t, res.Success, "the restored hash still verifies")

	assert.Equal(t, []string{"UserRegistered", "UserRemoved", "CommandUndone", "UserRegistered", "CommandRedone"}, names)
}
