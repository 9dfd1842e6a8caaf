// Package repository implements the durable stores behind the session
// service: user records and the issued-token registry. Sentinel errors let
// the service layer translate storage outcomes into its own taxonomy
// without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a keyed lookup matches no row (or no active
// row, for registry lookups that filter on status).
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when an insert violates the unique email
// constraint on the users table.
var ErrEmailExists = errors.New("email already exists")
