// file: internals/policy/policy.go
//
// Single parameterized decision point for every resource. Controllers do
// not re-implement role checks; they describe the action (required
// tenant-wide roles, optional relationship target) and ask for a decision.
package policy

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
)

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool { return d == Allow }

// Principal is the acting identity. SchoolID is uuid.Nil only for the
// tenant-agnostic super admin.
type Principal struct {
	UserID   uuid.UUID
	SchoolID uuid.UUID
	Roles    []constants.Role
}

// Relation names the specific child or classroom an action concerns, for
// principals whose access flows through link tables rather than a
// tenant-wide role. ManageRoles lists which relationship roles may also
// mutate the resource; leave it nil for read-only relations.
type Relation struct {
	ChildID     *uuid.UUID
	ClassroomID *uuid.UUID
	ManageRoles []constants.Role
}

// RelationResolver answers whether an alive link (or classroom-lead
// reference) connects a principal to a child or classroom. Soft-deleted
// links must never resolve to true.
type RelationResolver interface {
	// ParentOfChild: alive ParentChildLink exists.
	ParentOfChild(ctx context.Context, parentID, childID uuid.UUID) (bool, error)
	// ParentOfClassroom: some alive linked child sits in the classroom.
	ParentOfClassroom(ctx context.Context, parentID, classroomID uuid.UUID) (bool, error)
	// TeacherOfChild: alive TeacherChildLink exists, or the teacher leads
	// the child's classroom.
	TeacherOfChild(ctx context.Context, teacherID, childID uuid.UUID) (bool, error)
	// TeacherOfClassroom: the teacher leads the classroom, or holds an
	// alive link to a child in it.
	TeacherOfClassroom(ctx context.Context, teacherID, classroomID uuid.UUID) (bool, error)
}

type Engine struct {
	rel RelationResolver
}

func NewEngine(rel RelationResolver) *Engine { return &Engine{rel: rel} }

// Decide evaluates in strict precedence order:
//
//  1. super admin → Allow, tenant-agnostic;
//  2. home tenant ≠ target tenant → Deny, no role bypasses this;
//  3. role set intersects the required tenant-wide roles → Allow;
//  4. a qualifying relationship role connects the principal to the
//     relation target → Allow;
//  5. otherwise Deny.
//
// Besides relation lookups the function is pure: same inputs, same answer.
func (e *Engine) Decide(ctx context.Context, p Principal, targetSchool uuid.UUID, required []constants.Role, rel *Relation, relRoles []constants.Role) (Decision, error) {
	if constants.HasRole(p.Roles, constants.RoleSuperAdmin) {
		return Allow, nil
	}
	if p.SchoolID == uuid.Nil || p.SchoolID != targetSchool {
		return Deny, nil
	}
	if constants.Intersects(p.Roles, required) {
		return Allow, nil
	}
	if rel != nil {
		ok, err := e.connected(ctx, p, rel, relRoles)
		if err != nil {
			return Deny, err
		}
		if ok {
			return Allow, nil
		}
	}
	return Deny, nil
}

// CanAccess is the read tier: admins tenant-wide, teachers and parents
// through the relation.
func (e *Engine) CanAccess(ctx context.Context, p Principal, targetSchool uuid.UUID, rel *Relation) (Decision, error) {
	return e.Decide(ctx, p, targetSchool, constants.TenantManagers, rel, constants.RelationshipRoles)
}

// CanManage is the mutation tier, always a subset of CanAccess: admins
// tenant-wide, plus only the relationship roles the relation explicitly
// grants mutation to.
func (e *Engine) CanManage(ctx context.Context, p Principal, targetSchool uuid.UUID, rel *Relation) (Decision, error) {
	var manage []constants.Role
	if rel != nil {
		manage = rel.ManageRoles
	}
	return e.Decide(ctx, p, targetSchool, constants.TenantManagers, rel, manage)
}

func (e *Engine) connected(ctx context.Context, p Principal, rel *Relation, qualifying []constants.Role) (bool, error) {
	for _, role := range qualifying {
		if !constants.HasRole(p.Roles, role) {
			continue
		}
		switch role {
		case constants.RoleParent:
			if rel.ChildID != nil {
				if ok, err := e.rel.ParentOfChild(ctx, p.UserID, *rel.ChildID); err != nil || ok {
					return ok, err
				}
			}
			if rel.ClassroomID != nil {
				if ok, err := e.rel.ParentOfClassroom(ctx, p.UserID, *rel.ClassroomID); err != nil || ok {
					return ok, err
				}
			}
		case constants.RoleTeacher:
			if rel.ChildID != nil {
				if ok, err := e.rel.TeacherOfChild(ctx, p.UserID, *rel.ChildID); err != nil || ok {
					return ok, err
				}
			}
			if rel.ClassroomID != nil {
				if ok, err := e.rel.TeacherOfClassroom(ctx, p.UserID, *rel.ClassroomID); err != nil || ok {
					return ok, err
				}
			}
		}
	}
	return false, nil
}
