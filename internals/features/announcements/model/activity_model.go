// file: internals/features/announcements/model/activity_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

// ActivityModel shares the announcement targeting rule: NULL classroom id
// means school-wide.
type ActivityModel struct {
	ActivityID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"activity_id"`
	ActivitySchoolID    uuid.UUID  `gorm:"type:uuid;not null;index;<-:create" json:"activity_school_id"`
	ActivityClassroomID *uuid.UUID `gorm:"type:uuid;index" json:"activity_classroom_id,omitempty"`
	ActivityTitle       string     `gorm:"size:200;not null" json:"activity_title"`
	ActivityDescription string     `gorm:"type:text" json:"activity_description"`
	ActivityLocation    string     `gorm:"size:200" json:"activity_location"`
	ActivityDate        time.Time  `gorm:"not null" json:"activity_date"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:activity_"`
}

func (ActivityModel) TableName() string { return "activities" }

func (m *ActivityModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *ActivityModel) BeforeCreate(tx *gorm.DB) error {
	if m.ActivityID == uuid.Nil {
		m.ActivityID = uuid.New()
	}
	return nil
}
