// file: internals/helpers/auth/auth_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// Locals keys written by the auth middleware.
const (
	LocUserID   = "user_id"
	LocSchoolID = "school_id"
	LocRoles    = "roles"
	LocUserName = "user_name"
)

// AuthContext is the resolved acting principal for one request: who is
// calling, which school they belong to (nil for a super admin) and which
// roles they hold. It is derived once from validated JWT claims.
type AuthContext struct {
	UserID   uuid.UUID
	SchoolID *uuid.UUID
	Roles    []constants.Role
}

func (a AuthContext) HasRole(r constants.Role) bool {
	return constants.HasRole(a.Roles, r)
}

func (a AuthContext) IsSuperAdmin() bool { return a.HasRole(constants.RoleSuperAdmin) }

// HomeSchool returns the principal's own tenant; uuid.Nil for super admins.
func (a AuthContext) HomeSchool() uuid.UUID {
	if a.SchoolID == nil {
		return uuid.Nil
	}
	return *a.SchoolID
}

// Principal converts the request context into the policy engine's input.
func (a AuthContext) Principal() policy.Principal {
	return policy.Principal{
		UserID:   a.UserID,
		SchoolID: a.HomeSchool(),
		Roles:    a.Roles,
	}
}

/* ===============================
   Locals extraction
=================================*/

// GetAuthContext rebuilds the principal from locals set by the middleware.
func GetAuthContext(c *fiber.Ctx) (AuthContext, error) {
	var out AuthContext

	rawUser, _ := c.Locals(LocUserID).(string)
	uid, err := uuid.Parse(strings.TrimSpace(rawUser))
	if err != nil || uid == uuid.Nil {
		return out, fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
	}
	out.UserID = uid

	if rawSchool, _ := c.Locals(LocSchoolID).(string); strings.TrimSpace(rawSchool) != "" {
		sid, err := uuid.Parse(strings.TrimSpace(rawSchool))
		if err != nil {
			return out, fiber.NewError(fiber.StatusUnauthorized, "malformed school claim")
		}
		out.SchoolID = &sid
	}

	switch roles := c.Locals(LocRoles).(type) {
	case []constants.Role:
		out.Roles = roles
	case []string:
		for _, s := range roles {
			r, err := constants.ParseRole(s)
			if err != nil {
				continue
			}
			out.Roles = append(out.Roles, r)
		}
	}
	if len(out.Roles) == 0 {
		return out, fiber.NewError(fiber.StatusUnauthorized, "missing role claim")
	}
	return out, nil
}

// TenantFromParams parses the :school_id path segment naming the requested
// tenant. A malformed id reads as an unknown resource on purpose.
func TenantFromParams(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("school_id")))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, helper.ErrNotFound("school")
	}
	return id, nil
}
