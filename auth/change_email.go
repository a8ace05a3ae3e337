package auth

import (
	"context"
	"time"

	"github.com/dmitrymomot/cmdkit/core/command"
	"github.com/dmitrymomot/cmdkit/core/fault"
)

// ChangeEmailInput identifies the user and the new address.
type ChangeEmailInput struct {
	UserID   string `json:"user_id"`
	NewEmail string `json:"new_email"`
}

// ChangeEmailOutput reports the applied address.
type ChangeEmailOutput struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ChangeEmailCommand replaces a user's email address. The previous address
// is captured during Execute so undo can restore it.
type ChangeEmailCommand struct {
	repo     UserRepository
	userID   string
	oldEmail string
	newEmail string
}

// NewChangeEmailCommand creates a change-email command bound to a repository.
func NewChangeEmailCommand(repo UserRepository) *ChangeEmailCommand {
	return &ChangeEmailCommand{repo: repo}
}

func (c *ChangeEmailCommand) Name() string { return "ChangeUserEmail" }

func (c *ChangeEmailCommand) Validate(input any) []command.Issue {
	in, ok := input.(ChangeEmailInput)
	if !ok {
		return []command.Issue{{Field: "input", Message: "expected ChangeEmailInput"}}
	}

	var issues []command.Issue
	if in.UserID == "" {
		issues = append(issues, command.Issue{Field: "user_id", Message: "is required"})
	}
	issues = append(issues, validateEmail("new_email", in.NewEmail)...)
	return issues
}

func (c *ChangeEmailCommand) Execute(ctx context.Context, exec *command.ExecContext, input any) (any, error) {
	in := input.(ChangeEmailInput)

	user, err := c.repo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, repoFault(err)
	}

	newEmail := normalizeEmail(in.NewEmail)
	if user.Email == newEmail {
		return nil, fault.BusinessRule(CodeEmailUnchanged, "new email matches the current one")
	}

	c.userID = user.ID
	c.oldEmail = user.Email
	c.newEmail = newEmail
	return c.apply(ctx, exec, c.oldEmail, c.newEmail)
}

// Undo restores the previous email address.
func (c *ChangeEmailCommand) Undo(ctx context.Context, exec *command.ExecContext) error {
	_, err := c.apply(ctx, exec, c.newEmail, c.oldEmail)
	return err
}

// Redo re-applies the new email address.
func (c *ChangeEmailCommand) Redo(ctx context.Context, exec *command.ExecContext) (any, error) {
	return c.apply(ctx, exec, c.oldEmail, c.newEmail)
}

func (c *ChangeEmailCommand) apply(ctx context.Context, exec *command.ExecContext, from, to string) (any, error) {
	user, err := c.repo.GetByID(ctx, c.userID)
	if err != nil {
		return nil, repoFault(err)
	}

	user.Email = to
	user.UpdatedAt = time.Now()
	if err := c.repo.Update(ctx, user); err != nil {
		return nil, repoFault(err)
	}

	exec.Emit(UserEmailChanged{UserID: user.ID, OldEmail: from, NewEmail: to})
	return ChangeEmailOutput{UserID: user.ID, Email: to}, nil
}
