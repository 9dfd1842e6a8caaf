// Package queue defines message payloads exchanged over the message broker
// and the publisher that emits them. The auth service only produces events;
// downstream services (notifications, provisioning) consume them.
package queue

import "time"

// UserRegisteredEvent is published when a registration succeeds. It carries
// enough for downstream consumers to greet or provision the new account
// without querying the primary database.
type UserRegisteredEvent struct {
	UserID       uint64    `json:"user_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	EmployeeID   string    `json:"employee_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserDeletedEvent is published after an admin deletes an account and its
// token history.
type UserDeletedEvent struct {
	UserID    uint64    `json:"user_id"`
	Email     string    `json:"email"`
	DeletedBy uint64    `json:"deleted_by"`
	DeletedAt time.Time `json:"deleted_at"`
}
