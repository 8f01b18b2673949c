// file: internals/features/children/model/child_model.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

type ChildModel struct {
	ChildID          uuid.UUID             `gorm:"type:uuid;primaryKey" json:"child_id"`
	ChildSchoolID    uuid.UUID             `gorm:"type:uuid;not null;index;<-:create" json:"child_school_id"`
	ChildClassroomID *uuid.UUID            `gorm:"type:uuid;index" json:"child_classroom_id,omitempty"`
	ChildFirstName   string                `gorm:"size:100;not null" json:"child_first_name"`
	ChildLastName    string                `gorm:"size:100;not null" json:"child_last_name"`
	ChildStatus      constants.ChildStatus `gorm:"size:20;not null;default:pre_registered" json:"child_status"`
	ChildSchoolYear  string                `gorm:"size:20;not null" json:"child_school_year"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:child_"`
}

func (ChildModel) TableName() string { return "children" }

func (m *ChildModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *ChildModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChildID == uuid.Nil {
		m.ChildID = uuid.New()
	}
	if m.ChildStatus == "" {
		m.ChildStatus = constants.ChildPreRegistered
	}
	return nil
}
