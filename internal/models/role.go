package models

import "time"

type Role string

const (
	RolePresident Role = "president"
	RoleTresorier Role = "tresorier"
	RoleMembre    Role = "membre"
)

func (r Role) Valid() bool {
	switch r {
	case RolePresident, RoleTresorier, RoleMembre:
		return true
	default:
		return false
	}
}

// UserRole is the user_roles/{uid} document.
type UserRole struct {
	UserID    string    `firestore:"userId" json:"userId"`
	Role      Role      `firestore:"role" json:"role"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Capabilities are derived from a role. The zero value describes an
// unauthenticated caller or one without a role record.
type Capabilities struct {
	Role        Role `json:"role"`
	IsPresident bool `json:"isPresident"`
	IsTresorier bool `json:"isTresorier"`
	IsAdmin     bool `json:"isAdmin"`
}

func CapabilitiesFor(role Role) Capabilities {
	if !role.Valid() {
		return Capabilities{}
	}
	c := Capabilities{
		Role:        role,
		IsPresident: role == RolePresident,
		IsTresorier: role == RoleTresorier,
	}
	c.IsAdmin = c.IsPresident || c.IsTresorier
	return c
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UID string
	Capabilities
}
