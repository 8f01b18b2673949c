// file: internals/features/messages/model/liaison_message_model.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

// LiaisonMessageModel is a child-scoped exchange between the school staff
// and the child's guardians.
type LiaisonMessageModel struct {
	LiaisonMessageID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"liaison_message_id"`
	LiaisonMessageSchoolID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"liaison_message_school_id"`
	LiaisonMessageChildID  uuid.UUID `gorm:"type:uuid;not null;index" json:"liaison_message_child_id"`
	LiaisonMessageSenderID uuid.UUID `gorm:"type:uuid;not null" json:"liaison_message_sender_id"`
	LiaisonMessageSubject  string    `gorm:"size:200;not null" json:"liaison_message_subject"`
	LiaisonMessageBody     string    `gorm:"type:text;not null" json:"liaison_message_body"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:liaison_message_"`
}

func (LiaisonMessageModel) TableName() string { return "liaison_messages" }

func (m *LiaisonMessageModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *LiaisonMessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.LiaisonMessageID == uuid.Nil {
		m.LiaisonMessageID = uuid.New()
	}
	return nil
}
