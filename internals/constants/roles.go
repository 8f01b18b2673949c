package constants

import (
	"fmt"
	"strings"
)

// Role is a closed set. Roles are compared by value, never by raw string,
// so a typo in a caller fails to compile instead of silently denying.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleTeacher    Role = "teacher"
	RoleParent     Role = "parent"
)

var AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleTeacher, RoleParent}

// ParseRole maps a stored/claimed string onto the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleParent:
		return RoleParent, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// ==========================
// Grouped role slices
// ==========================
var (
	// TenantManagers may perform tenant-wide mutations inside their own school.
	TenantManagers = []Role{RoleAdmin}

	// RelationshipRoles gain visibility only through child links.
	RelationshipRoles = []Role{RoleTeacher, RoleParent}

	// StaffRoles may be assigned as classroom lead.
	StaffRoles = []Role{RoleTeacher}

	// SchoolMembers: every role that exists inside a school.
	SchoolMembers = []Role{RoleAdmin, RoleTeacher, RoleParent}
)

func HasRole(set []Role, want Role) bool {
	for _, r := range set {
		if r == want {
			return true
		}
	}
	return false
}

func Intersects(set, required []Role) bool {
	for _, r := range required {
		if HasRole(set, r) {
			return true
		}
	}
	return false
}
