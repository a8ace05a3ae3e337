package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/cmdkit/core/command"
	"github.com/dmitrymomot/cmdkit/core/fault"
)

// RegisterInput carries the data for a new account.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterOutput identifies the created account.
type RegisterOutput struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// RegisterCommand creates a user account with a bcrypt-hashed password. The
// created user is captured at execution time so undo can delete exactly that
// account and redo can restore it with the same id.
type RegisterCommand struct {
	repo    UserRepository
	created *User
}

// NewRegisterCommand creates a register command bound to a repository.
func NewRegisterCommand(repo UserRepository) *RegisterCommand {
	return &RegisterCommand{repo: repo}
}

func (c *RegisterCommand) Name() string { return "RegisterUser" }

func (c *RegisterCommand) Validate(input any) []command.Issue {
	in, ok := input.(RegisterInput)
	if !ok {
		return []command.Issue{{Field: "input", Message: "expected RegisterInput"}}
	}

	var issues []command.Issue
	issues = append(issues, validateEmail("email", in.Email)...)
	issues = append(issues, validatePassword("password", in.Password)...)
	return issues
}

func (c *RegisterCommand) Execute(ctx context.Context, exec *command.ExecContext, input any) (any, error) {
	in := input.(RegisterInput)

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fault.New(fault.CategorySystem, fault.CodeInternal, "failed to hash password",
			fault.WithSeverity(fault.SeverityHigh), fault.WithCause(err))
	}

	now := time.Now()
	user := User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.repo.Create(ctx, user); err != nil {
		return nil, repoFault(err)
	}

	c.created = &user
	exec.Emit(UserRegistered{UserID: user.ID, Email: user.Email})
	return RegisterOutput{UserID: user.ID, Email: user.Email}, nil
}

// Undo deletes the account created by Execute.
func (c *RegisterCommand) Undo(ctx context.Context, exec *command.ExecContext) error {
	if err := c.repo.Delete(ctx, c.created.ID); err != nil {
		return repoFault(err)
	}
	exec.Emit(UserRemoved{UserID: c.created.ID, Email: c.created.Email})
	return nil
}

// Redo restores the deleted account with its original id and password hash.
func (c *RegisterCommand) Redo(ctx context.Context, exec *command.ExecContext) (any, error) {
	if err := c.repo.Create(ctx, *c.created); err != nil {
		return nil, repoFault(err)
	}
	exec.Emit(UserRegistered{UserID: c.created.ID, Email: c.created.Email})
	return RegisterOutput{UserID: c.created.ID, Email: c.created.Email}, nil
}
