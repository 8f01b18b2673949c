// file: internals/features/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	paymentModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/payments/model"
)

type CreatePaymentRequest struct {
	ChildID  uuid.UUID              `json:"child_id" validate:"required"`
	Label    string                 `json:"label" validate:"required,min=1,max=200"`
	Amount   int64                  `json:"amount" validate:"required,gt=0"`
	Currency string                 `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (r *CreatePaymentRequest) ToModel(schoolID uuid.UUID) (*paymentModel.PaymentModel, error) {
	m := &paymentModel.PaymentModel{
		PaymentSchoolID: schoolID,
		PaymentChildID:  r.ChildID,
		PaymentLabel:    r.Label,
		PaymentAmount:   r.Amount,
		PaymentCurrency: r.Currency,
		PaymentStatus:   "pending",
	}
	if m.PaymentCurrency == "" {
		m.PaymentCurrency = "XOF"
	}
	if r.Metadata != nil {
		raw, err := sonic.Marshal(r.Metadata)
		if err != nil {
			return nil, err
		}
		m.PaymentMetadata = datatypes.JSON(raw)
	}
	return m, nil
}

type UpdatePaymentRequest struct {
	Label    *string                `json:"label,omitempty" validate:"omitempty,min=1,max=200"`
	Status   *string                `json:"status,omitempty" validate:"omitempty,oneof=pending paid cancelled refunded"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type PaymentResponse struct {
	PaymentID string                 `json:"payment_id"`
	SchoolID  string                 `json:"school_id"`
	ChildID   string                 `json:"child_id"`
	Label     string                 `json:"label"`
	Amount    int64                  `json:"amount"`
	Currency  string                 `json:"currency"`
	Status    string                 `json:"status"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func NewPaymentResponse(m *paymentModel.PaymentModel) *PaymentResponse {
	resp := &PaymentResponse{
		PaymentID: m.PaymentID.String(),
		SchoolID:  m.PaymentSchoolID.String(),
		ChildID:   m.PaymentChildID.String(),
		Label:     m.PaymentLabel,
		Amount:    m.PaymentAmount,
		Currency:  m.PaymentCurrency,
		Status:    m.PaymentStatus,
		CreatedAt: m.CreatedAt,
	}
	if len(m.PaymentMetadata) > 0 {
		var meta map[string]interface{}
		if err := sonic.Unmarshal(m.PaymentMetadata, &meta); err == nil {
			resp.Metadata = meta
		}
	}
	return resp
}
