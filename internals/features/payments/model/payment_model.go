// file: internals/features/payments/model/payment_model.go
package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
)

// PaymentModel is a child-scoped payment record. Amount is in minor
// currency units; metadata keeps gateway references and free-form notes.
type PaymentModel struct {
	PaymentID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"payment_id"`
	PaymentSchoolID uuid.UUID      `gorm:"type:uuid;not null;index;<-:create" json:"payment_school_id"`
	PaymentChildID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"payment_child_id"`
	PaymentLabel    string         `gorm:"size:200;not null" json:"payment_label"`
	PaymentAmount   int64          `gorm:"not null" json:"payment_amount"`
	PaymentCurrency string         `gorm:"size:3;not null;default:XOF" json:"payment_currency"`
	PaymentStatus   string         `gorm:"size:20;not null;default:pending" json:"payment_status"`
	PaymentMetadata datatypes.JSON `json:"payment_metadata,omitempty"`

	lifecycle.Audit `gorm:"embedded;embeddedPrefix:payment_"`
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) AuditBlock() *lifecycle.Audit { return &m.Audit }

func (m *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	return nil
}
