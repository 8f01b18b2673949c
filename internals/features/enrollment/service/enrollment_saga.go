// file: internals/features/enrollment/service/enrollment_saga.go
package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	schoolModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/schools/model"
	userService "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/service"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

// Saga steps, in execution order. The whole run rides one database
// transaction: a failure at any step rolls back everything written so
// far, so a failed enrollment leaves no residue.
type Step string

const (
	StepStart           Step = "start"
	StepGuardianCreated Step = "guardian_created"
	StepChildrenCreated Step = "children_created"
	StepLinksCreated    Step = "links_created"
	StepCommitted       Step = "committed"
)

// GuardianInput is the account half of an enrollment.
type GuardianInput struct {
	FullName string
	Email    string
	Password string
}

// ChildInput is one child to register. ClassroomID is optional; when set
// it must name an alive classroom of the enrolling school.
type ChildInput struct {
	FirstName   string
	LastName    string
	ClassroomID *uuid.UUID
}

type EnrollmentInput struct {
	Guardian GuardianInput
	Children []ChildInput
}

// EnrollmentResult reports what the committed transaction created.
type EnrollmentResult struct {
	GuardianID uuid.UUID
	SchoolID   uuid.UUID
	ChildIDs   []uuid.UUID
	SchoolYear string
}

// Notifier receives the post-commit fact. Failures here never undo the
// enrollment; the default implementation just logs.
type Notifier interface {
	EnrollmentCompleted(ctx context.Context, res EnrollmentResult)
}

type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) EnrollmentCompleted(ctx context.Context, res EnrollmentResult) {
	n.Log.Info("enrollment completed",
		zap.String("guardian_id", res.GuardianID.String()),
		zap.String("school_id", res.SchoolID.String()),
		zap.Int("children", len(res.ChildIDs)),
		zap.String("school_year", res.SchoolYear),
	)
}

// EnrollmentSaga creates a guardian account, the children, and the
// parent-child links as one atomic unit.
type EnrollmentSaga struct {
	DB          *gorm.DB
	Credentials userService.CredentialStore
	Notify      Notifier
	Log         *zap.Logger

	// afterStep, when set, runs inside the transaction after each step.
	// Returning an error aborts the run; tests use it to force failures
	// at a chosen point.
	afterStep func(step Step, tx *gorm.DB) error
}

func NewEnrollmentSaga(db *gorm.DB, creds userService.CredentialStore, notify Notifier, log *zap.Logger) *EnrollmentSaga {
	return &EnrollmentSaga{DB: db, Credentials: creds, Notify: notify, Log: log}
}

// Run executes the saga for one school. actor is the admin performing
// the enrollment and stamps every created row.
func (s *EnrollmentSaga) Run(ctx context.Context, actor, schoolID uuid.UUID, in EnrollmentInput) (*EnrollmentResult, error) {
	if len(in.Children) == 0 {
		return nil, helper.ErrValidation("at least one child is required")
	}

	res := &EnrollmentResult{SchoolID: schoolID}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// StepStart: resolve the school year and validate every
		// referenced classroom before writing anything.
		var year string
		if err := tx.Model(&schoolModel.SchoolModel{}).
			Where("school_id = ?", schoolID).
			Pluck("school_current_year", &year).Error; err != nil {
			return helper.ErrSaga(string(StepStart), err)
		}
		if year == "" {
			return helper.ErrSaga(string(StepStart), helper.ErrInvariant("school has no current year"))
		}
		res.SchoolYear = year

		for _, ch := range in.Children {
			if ch.ClassroomID == nil {
				continue
			}
			var n int64
			if err := tx.Table("classrooms").
				Where("classroom_id = ? AND classroom_school_id = ?", *ch.ClassroomID, schoolID).
				Where("classroom_deleted_at IS NULL").
				Count(&n).Error; err != nil {
				return helper.ErrSaga(string(StepStart), err)
			}
			if n == 0 {
				return helper.ErrValidation("classroom does not belong to this school")
			}
		}
		if err := s.hook(StepStart, tx); err != nil {
			return helper.ErrSaga(string(StepStart), err)
		}

		// StepGuardianCreated. A duplicate email surfaces as a plain
		// conflict, not a saga failure: nothing was written yet.
		guardian, err := s.Credentials.CreateAccount(ctx, tx, userService.NewAccount{
			SchoolID:  &schoolID,
			FullName:  in.Guardian.FullName,
			Email:     in.Guardian.Email,
			Password:  in.Guardian.Password,
			Roles:     []constants.Role{constants.RoleParent},
			CreatedBy: &actor,
		})
		if err != nil {
			if helper.KindOf(err) == helper.KindConflict {
				return err
			}
			return helper.ErrSaga(string(StepGuardianCreated), err)
		}
		res.GuardianID = guardian.UserID
		if err := s.hook(StepGuardianCreated, tx); err != nil {
			return helper.ErrSaga(string(StepGuardianCreated), err)
		}

		// StepChildrenCreated: every child starts pre-registered in the
		// school's current year.
		for _, ch := range in.Children {
			m := &childModel.ChildModel{
				ChildSchoolID:    schoolID,
				ChildClassroomID: ch.ClassroomID,
				ChildFirstName:   ch.FirstName,
				ChildLastName:    ch.LastName,
				ChildStatus:      constants.ChildPreRegistered,
				ChildSchoolYear:  year,
			}
			lifecycle.StampCreate(&m.Audit, actor)
			if err := tx.Create(m).Error; err != nil {
				return helper.ErrSaga(string(StepChildrenCreated), err)
			}
			res.ChildIDs = append(res.ChildIDs, m.ChildID)
		}
		if err := s.hook(StepChildrenCreated, tx); err != nil {
			return helper.ErrSaga(string(StepChildrenCreated), err)
		}

		// StepLinksCreated: the guardian gets an alive link to each
		// child, which is what makes them visible to the parent.
		for _, childID := range res.ChildIDs {
			link := &childModel.ParentChildLinkModel{
				ParentChildLinkSchoolID: schoolID,
				ParentChildLinkParentID: guardian.UserID,
				ParentChildLinkChildID:  childID,
			}
			lifecycle.StampCreate(&link.Audit, actor)
			if err := tx.Create(link).Error; err != nil {
				return helper.ErrSaga(string(StepLinksCreated), err)
			}
		}
		if err := s.hook(StepLinksCreated, tx); err != nil {
			return helper.ErrSaga(string(StepLinksCreated), err)
		}

		return nil
	})
	if txErr != nil {
		s.Log.Warn("enrollment rolled back",
			zap.String("school_id", schoolID.String()),
			zap.Error(txErr),
		)
		return nil, txErr
	}

	if s.Notify != nil {
		s.Notify.EnrollmentCompleted(ctx, *res)
	}
	return res, nil
}

func (s *EnrollmentSaga) hook(step Step, tx *gorm.DB) error {
	if s.afterStep == nil {
		return nil
	}
	return s.afterStep(step, tx)
}
