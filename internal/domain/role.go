package domain

import "strings"

// Role determines which collections an actor can see and which ledger
// operations it may perform.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleDriver  Role = "driver"
	RolePartner Role = "partner"
)

// ParseRole normalizes and validates a role string from a request payload
// or a stored document.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleDriver:
		return RoleDriver, nil
	case RolePartner:
		return RolePartner, nil
	}
	return "", ValidationError{Field: "role", Msg: "unknown role " + s}
}

// Actor is the authenticated identity a session acts as. ID is the account
// document id, which is also the credential id; the two are one canonical
// identifier everywhere (ownership checks, referrer ids, session identity).
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
