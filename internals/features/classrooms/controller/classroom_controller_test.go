// file: internals/features/classrooms/controller/classroom_controller_test.go
package controller

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	classModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
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
	))
	return db
}

func seedRoomWithChild(t *testing.T, db *gorm.DB, schoolID uuid.UUID) (*classModel.ClassroomModel, *childModel.ChildModel) {
	t.Helper()
	room := &classModel.ClassroomModel{
		ClassroomSchoolID: schoolID,
		ClassroomName:     "Lily",
	}
	require.NoError(t, db.Create(room).Error)
	child := &childModel.ChildModel{
		ChildSchoolID:    schoolID,
		ChildClassroomID: &room.ClassroomID,
		ChildFirstName:   "Awa",
		ChildLastName:    "Diabate",
		ChildSchoolYear:  "2026-2027",
	}
	require.NoError(t, db.Create(child).Error)
	return room, child
}

func TestRemoveClassroomBlockedWhileChildrenAssigned(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	actor := uuid.New()
	room, _ := seedRoomWithChild(t, db, schoolID)

	err := removeClassroom(db, room, actor)
	assert.Equal(t, helper.KindInvariant, helper.KindOf(err))

	// the classroom is untouched
	var alive int64
	require.NoError(t, db.Model(&classModel.ClassroomModel{}).
		Where("classroom_id = ?", room.ClassroomID).
		Count(&alive).Error)
	assert.EqualValues(t, 1, alive)
}

func TestRemoveClassroomAfterChildrenLeave(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	actor := uuid.New()
	room, child := seedRoomWithChild(t, db, schoolID)

	require.NoError(t, db.Delete(child).Error)
	require.NoError(t, removeClassroom(db, room, actor))

	var alive int64
	require.NoError(t, db.Model(&classModel.ClassroomModel{}).
		Where("classroom_id = ?", room.ClassroomID).
		Count(&alive).Error)
	assert.Zero(t, alive)

	// the soft-deleted child no longer references the removed classroom
	var gone childModel.ChildModel
	require.NoError(t, db.Unscoped().
		Where("child_id = ?", child.ChildID).
		First(&gone).Error)
	assert.Nil(t, gone.ChildClassroomID)
}
