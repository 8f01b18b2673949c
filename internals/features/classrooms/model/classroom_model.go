// file: internals/features/classrooms/model/classroom_model.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

type ClassroomModel struct {
	ClassroomID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"classroom_id"`
	ClassroomSchoolID      uuid.UUID  `gorm:"type:uuid;not null;index;<-:create" json:"classroom_school_id"`
	ClassroomName          string     `gorm:"size:100;not null" json:"classroom_name"`
	ClassroomCapacity      int        `gorm:"not null;default:0" json:"classroom_capacity"`
	ClassroomLeadTeacherID *uuid.UUID `gorm:"type:uuid" json:"classroom_lead_teacher_id,omitempty"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:classroom_"`
}

func (ClassroomModel) TableName() string { return "classrooms" }

func (m *ClassroomModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *ClassroomModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassroomID == uuid.Nil {
		m.ClassroomID = uuid.New()
	}
	return nil
}
