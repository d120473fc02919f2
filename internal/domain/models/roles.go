// internal/domain/models/roles.go
package models

// GlobalRole is the account-wide privilege level, independent of any group.
type GlobalRole string

const (
	GlobalRoleAdmin  GlobalRole = "admin"
	GlobalRoleEditor GlobalRole = "editor"
	GlobalRoleUser   GlobalRole = "user"
)

// Valid reports whether r is one of the known global roles.
func (r GlobalRole) Valid() bool {
	switch r {
	case GlobalRoleAdmin, GlobalRoleEditor, GlobalRoleUser:
		return true
	}
	return false
}

// ParseGlobalRole maps a stored role string to a GlobalRole.
// Unknown strings map to GlobalRoleUser so a corrupt role can never
// grant elevated access.
func ParseGlobalRole(s string) GlobalRole {
	r := GlobalRole(s)
	if !r.Valid() {
		return GlobalRoleUser
	}
	return r
}

// GroupRole is a per-group privilege level. "owner" is implicit via the
// group's OwnerID; membership rows only ever store "editor" or "viewer".
type GroupRole string

const (
	GroupRoleOwner  GroupRole = "owner"
	GroupRoleEditor GroupRole = "editor"
	GroupRoleViewer GroupRole = "viewer"
	GroupRoleNone   GroupRole = "none"
)

// Level ranks group roles: owner(3) > editor(2) > viewer(1) > none(0).
// Total: unknown role strings rank as 0 and can never satisfy a
// requirement.
func (r GroupRole) Level() int {
	switch r {
	case GroupRoleOwner:
		return 3
	case GroupRoleEditor:
		return 2
	case GroupRoleViewer:
		return 1
	}
	return 0
}

// Meets reports whether r's level meets or exceeds the required role's level.
func (r GroupRole) Meets(required GroupRole) bool {
	return r.Level() >= required.Level()
}

// ValidMembership reports whether r may be stored on a membership row.
// Ownership is never represented as a membership.
func (r GroupRole) ValidMembership() bool {
	return r == GroupRoleEditor || r == GroupRoleViewer
}
