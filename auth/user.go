package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/cmdkit/core/fault"
)

// User is the account aggregate. PasswordHash always holds a bcrypt hash;
// plaintext passwords never leave the command that received them.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository sentinel errors. Implementations return these so commands can
// translate storage failures into domain fault records without knowing the
// backing store.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

// Domain error codes used by the auth commands.
const (
	CodeEmailTaken         = "email_taken"
	CodeEmailUnchanged     = "email_unchanged"
	CodeInvalidCredentials = "invalid_credentials"
	CodeRepositoryFailure  = "user_repository_failure"
)

// UserRepository is the storage port for user accounts. Implementations must
// enforce email uniqueness and return the package sentinel errors.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, id string) error
}

// repoFault translates repository errors into fault records. Unknown errors
// are classified as retryable integration failures since the repository
// fronts an external store.
func repoFault(err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return fault.NotFound("user", fault.WithCause(err))
	case errors.Is(err, ErrEmailTaken):
		return fault.BusinessRule(CodeEmailTaken, "email is already registered", fault.WithCause(err))
	default:
		return fault.New(fault.CategoryIntegration, CodeRepositoryFailure, "user repository operation failed",
			fault.WithSeverity(fault.SeverityHigh),
			fault.WithCause(err),
			fault.Retryable())
	}
}
