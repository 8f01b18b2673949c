// file: internals/features/enrollment/service/enrollment_saga_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	classModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
	schoolModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/schools/model"
	userModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	userService "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/service"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
)

type recordingNotifier struct {
	got []EnrollmentResult
}

func (n *recordingNotifier) EnrollmentCompleted(_ context.Context, res EnrollmentResult) {
	n.got = append(n.got, res)
}

func openTestDB(t *testing.T) (*gorm.DB, uuid.UUID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&schoolModel.SchoolModel{},
		&userModel.UserModel{},
		&classModel.ClassroomModel{},
		&childModel.ChildModel{},
		&childModel.ParentChildLinkModel{},
	))

	school := &schoolModel.SchoolModel{
		SchoolName:         "Froebel Plateau",
		SchoolCode:         "FRB-PLT",
		SchoolContactEmail: "contact@froebel-plateau.ci",
		SchoolCurrentYear:  "2026-2027",
	}
	require.NoError(t, db.Create(school).Error)
	return db, school.SchoolID
}

func newTestSaga(db *gorm.DB, notify Notifier) *EnrollmentSaga {
	return NewEnrollmentSaga(db, userService.NewGormCredentialStore(), notify, zap.NewNop())
}

func sampleInput(children int) EnrollmentInput {
	in := EnrollmentInput{
		Guardian: GuardianInput{
			FullName: "Mariam Ouattara",
			Email:    "mariam.ouattara@example.ci",
			Password: "s3cret-enough",
		},
	}
	names := []string{"Aya", "Koffi", "Adjoua", "Yao"}
	for i := 0; i < children; i++ {
		in.Children = append(in.Children, ChildInput{
			FirstName: names[i%len(names)],
			LastName:  "Ouattara",
		})
	}
	return in
}

func TestEnrollmentCreatesEverything(t *testing.T) {
	db, schoolID := openTestDB(t)
	notify := &recordingNotifier{}
	saga := newTestSaga(db, notify)
	actor := uuid.New()

	res, err := saga.Run(context.Background(), actor, schoolID, sampleInput(3))
	require.NoError(t, err)
	require.Len(t, res.ChildIDs, 3)
	assert.Equal(t, "2026-2027", res.SchoolYear)

	var guardian userModel.UserModel
	require.NoError(t, db.Where("user_id = ?", res.GuardianID).First(&guardian).Error)
	require.NotNil(t, guardian.UserSchoolID)
	assert.Equal(t, schoolID, *guardian.UserSchoolID)
	assert.True(t, guardian.HasRole(constants.RoleParent))

	var children []childModel.ChildModel
	require.NoError(t, db.Where("child_school_id = ?", schoolID).Find(&children).Error)
	require.Len(t, children, 3)
	for _, ch := range children {
		assert.Equal(t, constants.ChildPreRegistered, ch.ChildStatus)
		assert.Equal(t, "2026-2027", ch.ChildSchoolYear)
		assert.Equal(t, actor, ch.CreatedBy)
	}

	var links int64
	require.NoError(t, db.Model(&childModel.ParentChildLinkModel{}).
		Where("parent_child_link_parent_id = ?", res.GuardianID).
		Count(&links).Error)
	assert.EqualValues(t, 3, links)

	require.Len(t, notify.got, 1)
	assert.Equal(t, res.GuardianID, notify.got[0].GuardianID)
}

// A failure after the last write step must leave no residue at all: no
// guardian account, no children, no links.
func TestEnrollmentFailureRollsBackEverything(t *testing.T) {
	db, schoolID := openTestDB(t)
	notify := &recordingNotifier{}
	saga := newTestSaga(db, notify)

	boom := errors.New("link verification failed")
	saga.afterStep = func(step Step, _ *gorm.DB) error {
		if step == StepLinksCreated {
			return boom
		}
		return nil
	}

	_, err := saga.Run(context.Background(), uuid.New(), schoolID, sampleInput(2))
	require.Error(t, err)
	assert.Equal(t, helper.KindSaga, helper.KindOf(err))

	var users, children, links int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&users).Error)
	require.NoError(t, db.Model(&childModel.ChildModel{}).Count(&children).Error)
	require.NoError(t, db.Model(&childModel.ParentChildLinkModel{}).Count(&links).Error)
	assert.Zero(t, users)
	assert.Zero(t, children)
	assert.Zero(t, links)

	assert.Empty(t, notify.got)
}

func TestEnrollmentDuplicateEmailIsConflict(t *testing.T) {
	db, schoolID := openTestDB(t)
	saga := newTestSaga(db, &recordingNotifier{})

	first, err := saga.Run(context.Background(), uuid.New(), schoolID, sampleInput(1))
	require.NoError(t, err)
	require.Len(t, first.ChildIDs, 1)

	_, err = saga.Run(context.Background(), uuid.New(), schoolID, sampleInput(2))
	require.Error(t, err)
	assert.Equal(t, helper.KindConflict, helper.KindOf(err))

	// the failed run added nothing
	var children int64
	require.NoError(t, db.Model(&childModel.ChildModel{}).Count(&children).Error)
	assert.EqualValues(t, 1, children)
}

func TestEnrollmentRejectsForeignClassroom(t *testing.T) {
	db, schoolID := openTestDB(t)
	saga := newTestSaga(db, &recordingNotifier{})

	foreign := uuid.New()
	in := sampleInput(1)
	in.Children[0].ClassroomID = &foreign

	_, err := saga.Run(context.Background(), uuid.New(), schoolID, in)
	require.Error(t, err)
	assert.Equal(t, helper.KindValidation, helper.KindOf(err))

	var users int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestEnrollmentRequiresChildren(t *testing.T) {
	db, schoolID := openTestDB(t)
	saga := newTestSaga(db, &recordingNotifier{})

	in := sampleInput(0)
	_, err := saga.Run(context.Background(), uuid.New(), schoolID, in)
	require.Error(t, err)
	assert.Equal(t, helper.KindValidation, helper.KindOf(err))
}

func TestEnrollmentAssignsValidatedClassroom(t *testing.T) {
	db, schoolID := openTestDB(t)
	saga := newTestSaga(db, &recordingNotifier{})

	room := &classModel.ClassroomModel{ClassroomSchoolID: schoolID, ClassroomName: "Hibiscus"}
	require.NoError(t, db.Create(room).Error)

	in := sampleInput(1)
	in.Children[0].ClassroomID = &room.ClassroomID

	res, err := saga.Run(context.Background(), uuid.New(), schoolID, in)
	require.NoError(t, err)

	var ch childModel.ChildModel
	require.NoError(t, db.Where("child_id = ?", res.ChildIDs[0]).First(&ch).Error)
	require.NotNil(t, ch.ChildClassroomID)
	assert.Equal(t, room.ClassroomID, *ch.ChildClassroomID)
}
