package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/cmdkit/core/command"
	"github.com/dmitrymomot/cmdkit/core/fault"
)

// LoginInput carries the credentials to verify.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginOutput identifies the authenticated account.
type LoginOutput struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// LoginCommand verifies credentials against the stored bcrypt hash. It has
// no side effects to invert and is deliberately not undoable. Unknown emails
// and wrong passwords fail identically so the command cannot be used to
// probe which accounts exist.
type LoginCommand struct {
	repo UserRepository
}

// NewLoginCommand creates a login command bound to a repository.
func NewLoginCommand(repo UserRepository) *LoginCommand {
	return &LoginCommand{repo: repo}
}

func (c *LoginCommand) Name() string { return "LoginUser" }

func (c *LoginCommand) Validate(input any) []command.Issue {
	in, ok := input.(LoginInput)
	if !ok {
		return []command.Issue{{Field: "input", Message: "expected LoginInput"}}
	}

	var issues []command.Issue
	issues = append(issues, validateEmail("email", in.Email)...)
	if in.Password == "" {
		issues = append(issues, command.Issue{Field: "password", Message: "is required"})
	}
	return issues
}

func (c *LoginCommand) Execute(ctx context.Context, exec *command.ExecContext, input any) (any, error) {
	in := input.(LoginInput)

	user, err := c.repo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if rec := fault.Normalize(repoFault(err)); rec.Code == fault.CodeNotFound {
			return nil, invalidCredentials()
		}
		return nil, repoFault(err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(in.Password)); err != nil {
		return nil, invalidCredentials()
	}

	exec.Emit(UserLoggedIn{UserID: user.ID, Email: user.Email})
	return LoginOutput{UserID: user.ID, Email: user.Email}, nil
}

func invalidCredentials() error {
	return fault.Authentication(CodeInvalidCredentials, "invalid email or password")
}
