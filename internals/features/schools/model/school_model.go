// file: internals/features/schools/model/school_model.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

// SchoolModel is the tenant root. Its id is referenced by every
// tenant-scoped row and never changes once set.
type SchoolModel struct {
	SchoolID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"school_id"`
	SchoolName         string    `gorm:"size:200;not null" json:"school_name"`
	SchoolCode         string    `gorm:"size:30;not null" json:"school_code"`
	SchoolContactEmail string    `gorm:"size:255;not null" json:"school_contact_email"`
	SchoolCurrentYear  string    `gorm:"size:20;not null" json:"school_current_year"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:school_"`
}

func (SchoolModel) TableName() string { return "schools" }

func (m *SchoolModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *SchoolModel) BeforeCreate(tx *gorm.DB) error {
	if m.SchoolID == uuid.Nil {
		m.SchoolID = uuid.New()
	}
	return nil
}
