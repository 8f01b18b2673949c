// file: internals/features/children/model/link_models.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

// ParentChildLinkModel is the only path by which a parent principal gains
// visibility into a child. The (parent, child) pair is unique among alive
// rows; a soft-deleted link frees the pair for re-creation.
type ParentChildLinkModel struct {
	ParentChildLinkID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"parent_child_link_id"`
	ParentChildLinkSchoolID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"parent_child_link_school_id"`
	ParentChildLinkParentID uuid.UUID `gorm:"type:uuid;not null;index" json:"parent_child_link_parent_id"`
	ParentChildLinkChildID  uuid.UUID `gorm:"type:uuid;not null;index" json:"parent_child_link_child_id"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:parent_child_link_"`
}

func (ParentChildLinkModel) TableName() string { return "parent_child_links" }

func (m *ParentChildLinkModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *ParentChildLinkModel) BeforeCreate(tx *gorm.DB) error {
	if m.ParentChildLinkID == uuid.Nil {
		m.ParentChildLinkID = uuid.New()
	}
	return nil
}

// TeacherChildLinkModel mirrors ParentChildLinkModel for teachers.
type TeacherChildLinkModel struct {
	TeacherChildLinkID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"teacher_child_link_id"`
	TeacherChildLinkSchoolID  uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"teacher_child_link_school_id"`
	TeacherChildLinkTeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_child_link_teacher_id"`
	TeacherChildLinkChildID   uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_child_link_child_id"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:teacher_child_link_"`
}

func (TeacherChildLinkModel) TableName() string { return "teacher_child_links" }

func (m *TeacherChildLinkModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *TeacherChildLinkModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeacherChildLinkID == uuid.Nil {
		m.TeacherChildLinkID = uuid.New()
	}
	return nil
}
