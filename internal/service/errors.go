// Package service contains the business logic of the auth backend: the
// session lifecycle (register, login, refresh, change password, logout) and
// role-gated user management. Services speak to persistence only through
// the narrow store interfaces in store.go, which keeps them testable with
// in-memory fakes.
package service

import "errors"

// Error taxonomy recovered at the HTTP boundary. Handlers map these to
// stable response codes; anything not matching one of them is a server
// fault.
var (
	// ErrInvalidInput marks malformed or policy-violating request data:
	// password confirmation mismatch, unknown role, self- or
	// protected-role deletion.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized covers failed credential checks and invalid or
	// expired refresh tokens. Login deliberately returns this same value
	// for unknown email and wrong password so responses cannot be used to
	// enumerate accounts.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrForbidden means the caller is authenticated but lacks the role
	// or superuser flag for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means a referenced user or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a registration collides with an existing email.
	ErrConflict = errors.New("email already registered")
)
