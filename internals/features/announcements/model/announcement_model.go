// file: internals/features/announcements/model/announcement_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

// AnnouncementModel: classroom id NULL means the announcement is general
// (visible school-wide); otherwise it targets one classroom.
type AnnouncementModel struct {
	AnnouncementID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"announcement_id"`
	AnnouncementSchoolID    uuid.UUID  `gorm:"type:uuid;not null;index;<-:create" json:"announcement_school_id"`
	AnnouncementClassroomID *uuid.UUID `gorm:"type:uuid;index" json:"announcement_classroom_id,omitempty"`
	AnnouncementTitle       string     `gorm:"size:200;not null" json:"announcement_title"`
	AnnouncementBody        string     `gorm:"type:text;not null" json:"announcement_body"`
	AnnouncementDate        time.Time  `gorm:"not null" json:"announcement_date"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:announcement_"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (m *AnnouncementModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	return nil
}
