// file: internals/features/academics/model/schedule_file_model.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

// ScheduleFileModel: unique per (classroom, school-year, filename) among
// alive rows.
type ScheduleFileModel struct {
	ScheduleFileID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"schedule_file_id"`
	ScheduleFileSchoolID     uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"schedule_file_school_id"`
	ScheduleFileClassroomID  uuid.UUID `gorm:"type:uuid;not null;index" json:"schedule_file_classroom_id"`
	ScheduleFileSchoolYear   string    `gorm:"size:20;not null" json:"schedule_file_school_year"`
	ScheduleFileFileName     string    `gorm:"size:255;not null" json:"schedule_file_file_name"`
	ScheduleFileFileLocation string    `gorm:"size:500;not null" json:"schedule_file_file_location"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:schedule_file_"`
}

func (ScheduleFileModel) TableName() string { return "schedule_files" }

func (m *ScheduleFileModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *ScheduleFileModel) BeforeCreate(tx *gorm.DB) error {
	if m.ScheduleFileID == uuid.Nil {
		m.ScheduleFileID = uuid.New()
	}
	return nil
}
