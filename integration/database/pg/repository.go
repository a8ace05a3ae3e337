package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/cmdkit/auth"
)

// UserRepository implements auth.UserRepository on a pgx connection pool.
// Storage errors are translated into the auth sentinel errors, so commands
// never see driver-level failures.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a repository bound to a connection pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. Email uniqueness is enforced by the database.
func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	const q = `INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, q, user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if IsDuplicateKeyError(err) {
		return auth.ErrEmailTaken
	}
	return err
}

// GetByID returns the user with the given id or auth.ErrUserNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (auth.User, error) {
	const q = `SELECT id, email, password_hash, created_at, updated_at
		FROM users WHERE id = $1`

	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

// GetByEmail returns the user with the given email or auth.ErrUserNotFound.
// Lookup is case-insensitive.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	const q = `SELECT id, email, password_hash, created_at, updated_at
		FROM users WHERE lower(email) = lower($1)`

	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

// Update replaces the stored user fields.
func (r *UserRepository) Update(ctx context.Context, user auth.User) error {
	const q = `UPDATE users SET email = $2, password_hash = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, user.ID, user.Email, user.PasswordHash, user.UpdatedAt)
	switch {
	case IsDuplicateKeyError(err):
		return auth.ErrEmailTaken
	case err != nil:
		return err
	case tag.RowsAffected() == 0:
		return auth.ErrUserNotFound
	}
	return nil
}

// Delete removes the user or fails with auth.ErrUserNotFound.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM users WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (auth.User, error) {
	var user auth.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if IsNotFoundError(err) {
		return auth.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, err
	}
	return user, nil
}
