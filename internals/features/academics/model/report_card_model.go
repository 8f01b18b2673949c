// file: internals/features/academics/model/report_card_model.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

// ReportCardModel: one per (child, term, school-year) among alive rows.
// The uniqueness check is application-level so a soft-deleted card frees
// its key.
type ReportCardModel struct {
	ReportCardID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"report_card_id"`
	ReportCardSchoolID     uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"report_card_school_id"`
	ReportCardChildID      uuid.UUID `gorm:"type:uuid;not null;index" json:"report_card_child_id"`
	ReportCardTerm         string    `gorm:"size:30;not null" json:"report_card_term"`
	ReportCardSchoolYear   string    `gorm:"size:20;not null" json:"report_card_school_year"`
	ReportCardFileName     string    `gorm:"size:255;not null" json:"report_card_file_name"`
	ReportCardFileLocation string    `gorm:"size:500;not null" json:"report_card_file_location"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:report_card_"`
}

func (ReportCardModel) TableName() string { return "report_cards" }

func (m *ReportCardModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *ReportCardModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReportCardID == uuid.Nil {
		m.ReportCardID = uuid.New()
	}
	return nil
}
