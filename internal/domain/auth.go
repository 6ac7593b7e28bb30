package domain

import "errors"

// Authentication failures map to 401, everything after a credential was
// presented maps to 403. Handlers rely on this split.
var (
	ErrCredentialMissing = errors.New("authorization credential missing or malformed")
	ErrTokenInvalid      = errors.New("token is invalid or expired")
	ErrIdentityMismatch  = errors.New("token identity does not match claimed identity")
	ErrRoleInsufficient  = errors.New("role is insufficient for this operation")
	ErrUserNotFound      = errors.New("user not found")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
