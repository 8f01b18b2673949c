// file: internals/scope/scope_test.go
package scope

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	annModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/announcements/model"
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
		&annModel.AnnouncementModel{},
	))
	return db
}

func seedChild(t *testing.T, db *gorm.DB, schoolID uuid.UUID, classroomID *uuid.UUID) uuid.UUID {
	t.Helper()
	m := &childModel.ChildModel{
		ChildSchoolID:    schoolID,
		ChildClassroomID: classroomID,
		ChildFirstName:   "Ama",
		ChildLastName:    "Kone",
		ChildSchoolYear:  "2026-2027",
	}
	require.NoError(t, db.Create(m).Error)
	return m.ChildID
}

func seedParentLink(t *testing.T, db *gorm.DB, schoolID, parentID, childID uuid.UUID) *childModel.ParentChildLinkModel {
	t.Helper()
	m := &childModel.ParentChildLinkModel{
		ParentChildLinkSchoolID: schoolID,
		ParentChildLinkParentID: parentID,
		ParentChildLinkChildID:  childID,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestParentChildIDsExcludesSoftDeletedLinks(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	parentID := uuid.New()

	kept := seedChild(t, db, schoolID, nil)
	dropped := seedChild(t, db, schoolID, nil)
	seedParentLink(t, db, schoolID, parentID, kept)
	link := seedParentLink(t, db, schoolID, parentID, dropped)
	require.NoError(t, db.Delete(link).Error)

	ids, err := ParentChildIDs(db, parentID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{kept}, ids)
}

func TestParentChildIDsExcludesSoftDeletedChildren(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	parentID := uuid.New()

	gone := seedChild(t, db, schoolID, nil)
	seedParentLink(t, db, schoolID, parentID, gone)
	require.NoError(t, db.Delete(&childModel.ChildModel{}, "child_id = ?", gone).Error)

	ids, err := ParentChildIDs(db, parentID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTeacherChildIDsMergesLinksAndLedClassroom(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	teacherID := uuid.New()

	room := &classModel.ClassroomModel{
		ClassroomSchoolID:      schoolID,
		ClassroomName:          "Tulip",
		ClassroomLeadTeacherID: &teacherID,
	}
	require.NoError(t, db.Create(room).Error)

	inRoom := seedChild(t, db, schoolID, &room.ClassroomID)
	linked := seedChild(t, db, schoolID, nil)
	unrelated := seedChild(t, db, schoolID, nil)
	_ = unrelated

	// the in-room child is also directly linked: must not appear twice
	for _, childID := range []uuid.UUID{inRoom, linked} {
		require.NoError(t, db.Create(&childModel.TeacherChildLinkModel{
			TeacherChildLinkSchoolID:  schoolID,
			TeacherChildLinkTeacherID: teacherID,
			TeacherChildLinkChildID:   childID,
		}).Error)
	}

	ids, err := TeacherChildIDs(db, teacherID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{inRoom, linked}, ids)
}

// A parent reading the announcement feed gets general rows plus the ones
// targeting their children's classrooms, nothing else.
func TestAnnouncementNarrowingForParent(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	parentID := uuid.New()

	roomA := &classModel.ClassroomModel{ClassroomSchoolID: schoolID, ClassroomName: "A"}
	roomB := &classModel.ClassroomModel{ClassroomSchoolID: schoolID, ClassroomName: "B"}
	require.NoError(t, db.Create(roomA).Error)
	require.NoError(t, db.Create(roomB).Error)

	child := seedChild(t, db, schoolID, &roomA.ClassroomID)
	seedParentLink(t, db, schoolID, parentID, child)

	general := &annModel.AnnouncementModel{
		AnnouncementSchoolID: schoolID,
		AnnouncementTitle:    "general",
		AnnouncementBody:     "x",
		AnnouncementDate:     time.Now(),
	}
	forA := &annModel.AnnouncementModel{
		AnnouncementSchoolID:    schoolID,
		AnnouncementClassroomID: &roomA.ClassroomID,
		AnnouncementTitle:       "room a",
		AnnouncementBody:        "x",
		AnnouncementDate:        time.Now(),
	}
	forB := &annModel.AnnouncementModel{
		AnnouncementSchoolID:    schoolID,
		AnnouncementClassroomID: &roomB.ClassroomID,
		AnnouncementTitle:       "room b",
		AnnouncementBody:        "x",
		AnnouncementDate:        time.Now(),
	}
	for _, m := range []*annModel.AnnouncementModel{general, forA, forB} {
		require.NoError(t, db.Create(m).Error)
	}

	rooms, err := ParentClassroomIDs(db, parentID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{roomA.ClassroomID}, rooms)

	var got []annModel.AnnouncementModel
	err = db.Model(&annModel.AnnouncementModel{}).
		Scopes(
			Tenant("announcement_school_id", schoolID),
			TargetedOrGeneral("announcement_classroom_id", rooms),
		).
		Find(&got).Error
	require.NoError(t, err)

	titles := make([]string, 0, len(got))
	for _, m := range got {
		titles = append(titles, m.AnnouncementTitle)
	}
	assert.ElementsMatch(t, []string{"general", "room a"}, titles)
}

func TestTargetedOrGeneralWithNoClassrooms(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()

	room := &classModel.ClassroomModel{ClassroomSchoolID: schoolID, ClassroomName: "A"}
	require.NoError(t, db.Create(room).Error)

	require.NoError(t, db.Create(&annModel.AnnouncementModel{
		AnnouncementSchoolID: schoolID,
		AnnouncementTitle:    "general",
		AnnouncementBody:     "x",
		AnnouncementDate:     time.Now(),
	}).Error)
	require.NoError(t, db.Create(&annModel.AnnouncementModel{
		AnnouncementSchoolID:    schoolID,
		AnnouncementClassroomID: &room.ClassroomID,
		AnnouncementTitle:       "targeted",
		AnnouncementBody:        "x",
		AnnouncementDate:        time.Now(),
	}).Error)

	var got []annModel.AnnouncementModel
	err := db.Model(&annModel.AnnouncementModel{}).
		Scopes(TargetedOrGeneral("announcement_classroom_id", nil)).
		Find(&got).Error
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "general", got[0].AnnouncementTitle)
}

func TestChildInEmptySetMatchesNothing(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	seedChild(t, db, schoolID, nil)

	var n int64
	err := db.Model(&childModel.ChildModel{}).
		Scopes(ChildIn("child_id", nil)).
		Count(&n).Error
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLinkedChildIDsUnionsBothRoles(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	userID := uuid.New()

	room := &classModel.ClassroomModel{
		ClassroomSchoolID:      schoolID,
		ClassroomName:          "Rose",
		ClassroomLeadTeacherID: &userID,
	}
	require.NoError(t, db.Create(room).Error)

	taught := seedChild(t, db, schoolID, &room.ClassroomID)
	own := seedChild(t, db, schoolID, nil)
	seedParentLink(t, db, schoolID, userID, own)
	// the taught child is also the user's own: one entry, not two
	seedParentLink(t, db, schoolID, userID, taught)

	both, err := LinkedChildIDs(db, userID, true, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{taught, own}, both)

	teacherOnly, err := LinkedChildIDs(db, userID, true, false)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{taught}, teacherOnly)

	parentOnly, err := LinkedChildIDs(db, userID, false, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{own, taught}, parentOnly)
}

func TestLinkedClassroomIDsUnionsBothRoles(t *testing.T) {
	db := openTestDB(t)
	schoolID := uuid.New()
	userID := uuid.New()

	ledRoom := &classModel.ClassroomModel{
		ClassroomSchoolID:      schoolID,
		ClassroomName:          "Jasmine",
		ClassroomLeadTeacherID: &userID,
	}
	require.NoError(t, db.Create(ledRoom).Error)
	otherRoom := &classModel.ClassroomModel{
		ClassroomSchoolID: schoolID,
		ClassroomName:     "Iris",
	}
	require.NoError(t, db.Create(otherRoom).Error)

	own := seedChild(t, db, schoolID, &otherRoom.ClassroomID)
	seedParentLink(t, db, schoolID, userID, own)

	rooms, err := LinkedClassroomIDs(db, userID, true, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{ledRoom.ClassroomID, otherRoom.ClassroomID}, rooms)
}
