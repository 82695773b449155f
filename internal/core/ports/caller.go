package ports

import "github.com/opencity/tender-marketplace/internal/core/domain"

// Caller identifies the authenticated user on whose behalf an operation runs.
// It is built from the JWT claims by the transport layer and passed explicitly
// into every mutating service call; services never reach into request state.
type Caller struct {
	UserID       string
	Username     string
	Role         domain.Role
	Organization string
}
