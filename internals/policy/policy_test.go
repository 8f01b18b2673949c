// file: internals/policy/policy_test.go
package policy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
)

// fakeResolver answers from in-memory pair sets.
type fakeResolver struct {
	parentChild      map[[2]uuid.UUID]bool
	parentClassroom  map[[2]uuid.UUID]bool
	teacherChild     map[[2]uuid.UUID]bool
	teacherClassroom map[[2]uuid.UUID]bool
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		parentChild:      map[[2]uuid.UUID]bool{},
		parentClassroom:  map[[2]uuid.UUID]bool{},
		teacherChild:     map[[2]uuid.UUID]bool{},
		teacherClassroom: map[[2]uuid.UUID]bool{},
	}
}

func (f *fakeResolver) ParentOfChild(_ context.Context, p, c uuid.UUID) (bool, error) {
	return f.parentChild[[2]uuid.UUID{p, c}], nil
}
func (f *fakeResolver) ParentOfClassroom(_ context.Context, p, c uuid.UUID) (bool, error) {
	return f.parentClassroom[[2]uuid.UUID{p, c}], nil
}
func (f *fakeResolver) TeacherOfChild(_ context.Context, t, c uuid.UUID) (bool, error) {
	return f.teacherChild[[2]uuid.UUID{t, c}], nil
}
func (f *fakeResolver) TeacherOfClassroom(_ context.Context, t, c uuid.UUID) (bool, error) {
	return f.teacherClassroom[[2]uuid.UUID{t, c}], nil
}

func TestSuperAdminCrossesTenants(t *testing.T) {
	eng := NewEngine(newFakeResolver())
	p := Principal{
		UserID: uuid.New(),
		Roles:  []constants.Role{constants.RoleSuperAdmin},
	}

	dec, err := eng.CanManage(context.Background(), p, uuid.New(), nil)
	require.NoError(t, err)
	assert.True(t, dec.Allowed())
}

// No combination of roles or relations lets a non-super-admin principal
// reach another tenant.
func TestCrossTenantAlwaysDenied(t *testing.T) {
	home := uuid.New()
	other := uuid.New()
	childID := uuid.New()
	classID := uuid.New()

	res := newFakeResolver()
	eng := NewEngine(res)

	roleSets := [][]constants.Role{
		{constants.RoleAdmin},
		{constants.RoleTeacher},
		{constants.RoleParent},
		{constants.RoleAdmin, constants.RoleTeacher, constants.RoleParent},
	}
	relations := []*Relation{
		nil,
		{ChildID: &childID},
		{ClassroomID: &classID},
		{ChildID: &childID, ManageRoles: constants.RelationshipRoles},
	}

	for _, roles := range roleSets {
		p := Principal{UserID: uuid.New(), SchoolID: home, Roles: roles}
		// even a live link to the target must not carry across tenants
		res.parentChild[[2]uuid.UUID{p.UserID, childID}] = true
		res.teacherChild[[2]uuid.UUID{p.UserID, childID}] = true

		for _, rel := range relations {
			access, err := eng.CanAccess(context.Background(), p, other, rel)
			require.NoError(t, err)
			assert.False(t, access.Allowed(), "roles %v rel %+v", roles, rel)

			manage, err := eng.CanManage(context.Background(), p, other, rel)
			require.NoError(t, err)
			assert.False(t, manage.Allowed(), "roles %v rel %+v", roles, rel)
		}
	}
}

func TestAdminManagesOwnTenant(t *testing.T) {
	home := uuid.New()
	eng := NewEngine(newFakeResolver())
	p := Principal{UserID: uuid.New(), SchoolID: home, Roles: []constants.Role{constants.RoleAdmin}}

	dec, err := eng.CanManage(context.Background(), p, home, nil)
	require.NoError(t, err)
	assert.True(t, dec.Allowed())
}

func TestRelationshipGrantsAccessNotManage(t *testing.T) {
	home := uuid.New()
	childID := uuid.New()

	res := newFakeResolver()
	eng := NewEngine(res)

	parent := Principal{UserID: uuid.New(), SchoolID: home, Roles: []constants.Role{constants.RoleParent}}
	res.parentChild[[2]uuid.UUID{parent.UserID, childID}] = true

	rel := &Relation{ChildID: &childID}

	access, err := eng.CanAccess(context.Background(), parent, home, rel)
	require.NoError(t, err)
	assert.True(t, access.Allowed())

	// no ManageRoles on the relation: reading yes, mutating no
	manage, err := eng.CanManage(context.Background(), parent, home, rel)
	require.NoError(t, err)
	assert.False(t, manage.Allowed())
}

func TestManageRolesOpenMutationToLinkedRoles(t *testing.T) {
	home := uuid.New()
	childID := uuid.New()

	res := newFakeResolver()
	eng := NewEngine(res)

	teacher := Principal{UserID: uuid.New(), SchoolID: home, Roles: []constants.Role{constants.RoleTeacher}}
	res.teacherChild[[2]uuid.UUID{teacher.UserID, childID}] = true

	rel := &Relation{ChildID: &childID, ManageRoles: []constants.Role{constants.RoleTeacher}}

	manage, err := eng.CanManage(context.Background(), teacher, home, rel)
	require.NoError(t, err)
	assert.True(t, manage.Allowed())

	// a linked parent does not qualify under a teacher-only relation
	parent := Principal{UserID: uuid.New(), SchoolID: home, Roles: []constants.Role{constants.RoleParent}}
	res.parentChild[[2]uuid.UUID{parent.UserID, childID}] = true

	manage, err = eng.CanManage(context.Background(), parent, home, rel)
	require.NoError(t, err)
	assert.False(t, manage.Allowed())
}

func TestUnlinkedRelationshipRoleDenied(t *testing.T) {
	home := uuid.New()
	childID := uuid.New()
	eng := NewEngine(newFakeResolver())

	parent := Principal{UserID: uuid.New(), SchoolID: home, Roles: []constants.Role{constants.RoleParent}}

	dec, err := eng.CanAccess(context.Background(), parent, home, &Relation{ChildID: &childID})
	require.NoError(t, err)
	assert.False(t, dec.Allowed())
}

// CanManage must never allow what CanAccess denies.
func TestManageIsSubsetOfAccess(t *testing.T) {
	home := uuid.New()
	childID := uuid.New()
	classID := uuid.New()

	res := newFakeResolver()
	eng := NewEngine(res)

	roleSets := [][]constants.Role{
		{},
		{constants.RoleAdmin},
		{constants.RoleTeacher},
		{constants.RoleParent},
		{constants.RoleTeacher, constants.RoleParent},
	}
	targets := []uuid.UUID{home, uuid.New()}
	relations := []*Relation{
		nil,
		{ChildID: &childID},
		{ClassroomID: &classID, ManageRoles: []constants.Role{constants.RoleTeacher}},
		{ChildID: &childID, ManageRoles: constants.RelationshipRoles},
	}

	for i, roles := range roleSets {
		p := Principal{UserID: uuid.New(), SchoolID: home, Roles: roles}
		if i%2 == 0 {
			res.parentChild[[2]uuid.UUID{p.UserID, childID}] = true
			res.teacherClassroom[[2]uuid.UUID{p.UserID, classID}] = true
		}
		for _, target := range targets {
			for _, rel := range relations {
				access, err := eng.CanAccess(context.Background(), p, target, rel)
				require.NoError(t, err)
				manage, err := eng.CanManage(context.Background(), p, target, rel)
				require.NoError(t, err)
				if manage.Allowed() {
					assert.True(t, access.Allowed(), "roles %v target %v rel %+v", roles, target, rel)
				}
			}
		}
	}
}
