package entity

import (
	"errors"
	"strings"
)

// Role is the closed set of account kinds.
// Stored as text in users.role.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleDonor
	RoleRequester
	RoleAdmin
)

var ErrInvalidRole = errors.New("invalid role")

// Roles lists every assignable role in display order.
func Roles() []Role {
	return []Role{RoleDonor, RoleRequester, RoleAdmin}
}

func (r Role) String() string {
	switch r {
	case RoleDonor:
		return "donor"
	case RoleRequester:
		return "requester"
	case RoleAdmin:
		return "admin"
	case RoleUnknown:
		return "unknown"
	}
	return "unknown"
}

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleRequester, RoleAdmin:
		return true
	case RoleUnknown:
		return false
	}
	return false
}

// ParseRole maps the stored text form back to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "donor":
		return RoleDonor, nil
	case "requester":
		return RoleRequester, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleUnknown, ErrInvalidRole
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
