package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/cmdkit/core/command"
	"github.com/dmitrymomot/cmdkit/core/fault"
)

// ChangePasswordInput carries the credential rotation request. The current
// password must verify before the new one is applied.
type ChangePasswordInput struct {
	UserID          string `json:"user_id"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePasswordOutput identifies the updated account.
type ChangePasswordOutput struct {
	UserID string `json:"user_id"`
}

// ChangePasswordCommand rotates a user's password hash. The previous hash is
// captured during Execute so undo can restore it without knowing any
// plaintext.
type ChangePasswordCommand struct {
	repo    UserRepository
	userID  string
	oldHash []byte
	newHash []byte
}

// NewChangePasswordCommand creates a change-password command bound to a
// repository.
func NewChangePasswordCommand(repo UserRepository) *ChangePasswordCommand {
	return &ChangePasswordCommand{repo: repo}
}

func (c *ChangePasswordCommand) Name() string { return "ChangeUserPassword" }

func (c *ChangePasswordCommand) Validate(input any) []command.Issue {
	in, ok := input.(ChangePasswordInput)
	if !ok {
		return []command.Issue{{Field: "input", Message: "expected ChangePasswordInput"}}
	}

	var issues []command.Issue
	if in.UserID == "" {
		issues = append(issues, command.Issue{Field: "user_id", Message: "is required"})
	}
	if in.CurrentPassword == "" {
		issues = append(issues, command.Issue{Field: "current_password", Message: "is required"})
	}
	issues = append(issues, validatePassword("new_password", in.NewPassword)...)
	return issues
}

func (c *ChangePasswordCommand) Execute(ctx context.Context, exec *command.ExecContext, input any) (any, error) {
	in := input.(ChangePasswordInput)

	user, err := c.repo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, repoFault(err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(in.CurrentPassword)); err != nil {
		return nil, fault.Authentication(CodeInvalidCredentials, "current password is incorrect")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fault.New(fault.CategorySystem, fault.CodeInternal, "failed to hash password",
			fault.WithSeverity(fault.SeverityHigh), fault.WithCause(err))
	}

	c.userID = user.ID
	c.oldHash = user.PasswordHash
	c.newHash = newHash
	return c.apply(ctx, exec, c.newHash)
}

// Undo restores the previous password hash.
func (c *ChangePasswordCommand) Undo(ctx context.Context, exec *command.ExecContext) error {
	_, err := c.apply(ctx, exec, c.oldHash)
	return err
}

// Redo re-applies the rotated hash.
func (c *ChangePasswordCommand) Redo(ctx context.Context, exec *command.ExecContext) (any, error) {
	return c.apply(ctx, exec, c.newHash)
}

func (c *ChangePasswordCommand) apply(ctx context.Context, exec *command.ExecContext, hash []byte) (any, error) {
	user, err := c.repo.GetByID(ctx, c.userID)
	if err != nil {
		return nil, repoFault(err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := c.repo.Update(ctx, user); err != nil {
		return nil, repoFault(err)
	}

	exec.Emit(UserPasswordChanged{UserID: user.ID})
	return ChangePasswordOutput{UserID: user.ID}, nil
}
