package auth

// Domain event payloads emitted by the auth commands. Event names derive
// from these type names.

// UserRegistered is emitted when an account is created, including when a
// redo re-creates a previously undone registration.
type UserRegistered struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// UserRemoved is emitted when undoing a registration deletes the account.
type UserRemoved struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// UserEmailChanged is emitted for every email transition, including the
// reverse transition performed by undo.
type UserEmailChanged struct {
	UserID   string `json:"user_id"`
	OldEmail string `json:"old_email"`
	NewEmail string `json:"new_email"`
}

// UserPasswordChanged is emitted when the password hash is replaced. It
// deliberately carries no password material.
type UserPasswordChanged struct {
	UserID string `json:"user_id"`
}

// UserLoggedIn is emitted on successful credential verification.
type UserLoggedIn struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
