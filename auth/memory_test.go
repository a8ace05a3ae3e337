package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cmdkit/auth"
)

func newUser(email string) auth.User {
	return auth.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: []byte("$2a$10$fakehashfakehashfakehash"),
	}
}

func TestMemoryUserRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		user := newUser("jane@example.com")
		require.NoError(t, repo.Create(ctx, user))

		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		byEmail, err := repo.GetByEmail(ctx, "JANE@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("enforces email uniqueness", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		require.NoError(t, repo.Create(ctx, newUser("dup@example.com")))

		err := repo.Create(ctx, newUser("dup@example.com"))
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("get unknown user", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)

		_, err = repo.GetByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("update reindexes email", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		user := newUser("old@example.com")
		require.NoError(t, repo.Create(ctx, user))

		user.Email = "new@example.com"
		require.NoError(t, repo.Update(ctx, user))

		_, err := repo.GetByEmail(ctx, "old@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)

		found, err := repo.GetByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("update rejects taken email", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		first := newUser("first@example.com")
		second := newUser("second@example.com")
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		second.Email = "first@example.com"
		assert.ErrorIs(t, repo.Update(ctx, second), auth.ErrEmailTaken)
	})

	t.Run("update unknown user", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		assert.ErrorIs(t, repo.Update(ctx, newUser("ghost@example.com")), auth.ErrUserNotFound)
	})

	t.Run("delete frees the email", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		user := newUser("reuse@example.com")
		require.NoError(t, repo.Create(ctx, user))
		require.NoError(t, repo.Delete(ctx, user.ID))

		_, err := repo.GetByID(ctx, user.ID)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		assert.NoError(t, repo.Create(ctx, newUser("reuse@example.com")))
	})

	t.Run("delete unknown user", func(t *testing.T) {
		t.Parallel()

		repo := auth.NewMemoryUserRepository()
		assert.ErrorIs(t, repo.Delete(ctx, "missing"), auth.ErrUserNotFound)
	})
}
