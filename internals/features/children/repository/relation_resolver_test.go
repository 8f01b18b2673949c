// file: internals/features/children/repository/relation_resolver_test.go
package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	classModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&classModel.ClassroomModel{},
		&childModel.ChildModel{},
		&childModel.ParentChildLinkModel{},
		&childModel.TeacherChildLinkModel{},
	))
	return db
}

func TestParentOfChildFollowsLinkLifecycle(t *testing.T) {
	db := openTestDB(t)
	r := NewRelationResolver(db)
	ctx := context.Background()

	schoolID := uuid.New()
	parentID := uuid.New()

	child := &childModel.ChildModel{
		ChildSchoolID:   schoolID,
		ChildFirstName:  "Aya",
		ChildLastName:   "Bamba",
		ChildSchoolYear: "2026-2027",
	}
	require.NoError(t, db.Create(child).Error)

	ok, err := r.ParentOfChild(ctx, parentID, child.ChildID)
	require.NoError(t, err)
	assert.False(t, ok)

	link := &childModel.ParentChildLinkModel{
		ParentChildLinkSchoolID: schoolID,
		ParentChildLinkParentID: parentID,
		ParentChildLinkChildID:  child.ChildID,
	}
	require.NoError(t, db.Create(link).Error)

	ok, err = r.ParentOfChild(ctx, parentID, child.ChildID)
	require.NoError(t, err)
	assert.True(t, ok)

	// a soft-deleted link revokes access immediately
	require.NoError(t, db.Delete(link).Error)
	ok, err = r.ParentOfChild(ctx, parentID, child.ChildID)
	require.NoError(t, err)
	assert.False(t, ok)

	// and a fresh link restores it
	require.NoError(t, db.Create(&childModel.ParentChildLinkModel{
		ParentChildLinkSchoolID: schoolID,
		ParentChildLinkParentID: parentID,
		ParentChildLinkChildID:  child.ChildID,
	}).Error)
	ok, err = r.ParentOfChild(ctx, parentID, child.ChildID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTeacherOfChildViaLeadClassroom(t *testing.T) {
	db := openTestDB(t)
	r := NewRelationResolver(db)
	ctx := context.Background()

	schoolID := uuid.New()
	teacherID := uuid.New()

	room := &classModel.ClassroomModel{
		ClassroomSchoolID:      schoolID,
		ClassroomName:          "Jasmin",
		ClassroomLeadTeacherID: &teacherID,
	}
	require.NoError(t, db.Create(room).Error)

	child := &childModel.ChildModel{
		ChildSchoolID:    schoolID,
		ChildClassroomID: &room.ClassroomID,
		ChildFirstName:   "Sena",
		ChildLastName:    "Kouame",
		ChildSchoolYear:  "2026-2027",
	}
	require.NoError(t, db.Create(child).Error)

	ok, err := r.TeacherOfChild(ctx, teacherID, child.ChildID)
	require.NoError(t, err)
	assert.True(t, ok)

	// soft-deleting the classroom severs the lead connection
	require.NoError(t, db.Delete(room).Error)
	ok, err = r.TeacherOfChild(ctx, teacherID, child.ChildID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParentOfClassroomThroughChild(t *testing.T) {
	db := openTestDB(t)
	r := NewRelationResolver(db)
	ctx := context.Background()

	schoolID := uuid.New()
	parentID := uuid.New()

	room := &classModel.ClassroomModel{ClassroomSchoolID: schoolID, ClassroomName: "Rose"}
	require.NoError(t, db.Create(room).Error)

	child := &childModel.ChildModel{
		ChildSchoolID:    schoolID,
		ChildClassroomID: &room.ClassroomID,
		ChildFirstName:   "Issa",
		ChildLastName:    "Diallo",
		ChildSchoolYear:  "2026-2027",
	}
	require.NoError(t, db.Create(child).Error)
	require.NoError(t, db.Create(&childModel.ParentChildLinkModel{
		ParentChildLinkSchoolID: schoolID,
		ParentChildLinkParentID: parentID,
		ParentChildLinkChildID:  child.ChildID,
	}).Error)

	ok, err := r.ParentOfClassroom(ctx, parentID, room.ClassroomID)
	require.NoError(t, err)
	assert.True(t, ok)

	other := &classModel.ClassroomModel{ClassroomSchoolID: schoolID, ClassroomName: "Lys"}
	require.NoError(t, db.Create(other).Error)
	ok, err = r.ParentOfClassroom(ctx, parentID, other.ClassroomID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTeacherOfClassroomViaLinkedChild(t *testing.T) {
	db := openTestDB(t)
	r := NewRelationResolver(db)
	ctx := context.Background()

	schoolID := uuid.New()
	teacherID := uuid.New()

	room := &classModel.ClassroomModel{ClassroomSchoolID: schoolID, ClassroomName: "Orchidee"}
	require.NoError(t, db.Create(room).Error)

	child := &childModel.ChildModel{
		ChildSchoolID:    schoolID,
		ChildClassroomID: &room.ClassroomID,
		ChildFirstName:   "Fanta",
		ChildLastName:    "Cisse",
		ChildSchoolYear:  "2026-2027",
	}
	require.NoError(t, db.Create(child).Error)
	require.NoError(t, db.Create(&childModel.TeacherChildLinkModel{
		TeacherChildLinkSchoolID:  schoolID,
		TeacherChildLinkTeacherID: teacherID,
		TeacherChildLinkChildID:   child.ChildID,
	}).Error)

	ok, err := r.TeacherOfClassroom(ctx, teacherID, room.ClassroomID)
	require.NoError(t, err)
	assert.True(t, ok)
}
