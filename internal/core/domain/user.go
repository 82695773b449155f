package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of actor roles in the marketplace.
type Role string

const (
	// RoleCity marks municipal users who publish tenders and award bids.
	RoleCity Role = "city"
	// RoleCompany marks vendor users who submit bids.
	RoleCompany Role = "company"
	// RoleCitizen marks read-only users.
	RoleCitizen Role = "citizen"
)

var ErrInvalidRole = errors.New("invalid role")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrForbidden = errors.New("access forbidden")

// ParseRole normalises a role string into the closed Role set.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCity:
		return RoleCity, nil
	case RoleCompany:
		return RoleCompany, nil
	case RoleCitizen:
		return RoleCitizen, nil
	}
	return "", ErrInvalidRole
}

func (r Role) IsCity() bool    { return r == RoleCity }
func (r Role) IsCompany() bool { return r == RoleCompany }

// User models an authenticated actor in the system. The role is assigned at
// registration and never changes afterwards.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	OrganizationName string    `json:"organization_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
