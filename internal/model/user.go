package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. Handlers define separate response types with JSON
// tags; these structs are used internally by the repository and
// service layers.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address (stored exactly as given).
//  FullName     – human display name.
//  EmployeeID   – externally visible identifier ("EMP51020", ...).
//  PasswordHash – argon2id encoded password hash.
//  Role         – role name (employee/hr/admin).
//  IsActive     – whether the account is active.
//  IsSuperuser  – grants admin-equivalent access regardless of Role.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	FullName     string    // users.full_name
	EmployeeID   string    // users.employee_id
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	IsSuperuser  bool      // users.is_superuser
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// TokenRecord models a row in the `auth_tokens` table. One row exists
// per issued access token; the access token value acts as the primary
// key. Rows are never deleted on logout, only flipped to inactive, so
// the table doubles as revocation history. A refresh keeps the row and
// replaces only the access token value.
//
// Fields:
//  UserID       – owner of the token pair.
//  AccessToken  – current access token value (primary key).
//  RefreshToken – refresh token value paired with the access token.
//  Status       – true while the pair is active; false once revoked.
//  CreatedDate  – timestamp of issuance.
type TokenRecord struct {
	UserID       uint64    // auth_tokens.user_id
	AccessToken  string    // auth_tokens.access_token
	RefreshToken string    // auth_tokens.refresh_token
	Status       bool      // auth_tokens.status
	CreatedDate  time.Time // auth_tokens.created_date
}
