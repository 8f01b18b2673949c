// file: internals/features/messages/dto/liaison_message_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	msgModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/messages/model"
)

type CreateLiaisonMessageRequest struct {
	ChildID uuid.UUID `json:"child_id" validate:"required"`
	Subject string    `json:"subject" validate:"required,min=1,max=200"`
	Body    string    `json:"body" validate:"required"`
}

func (r *CreateLiaisonMessageRequest) ToModel(schoolID, senderID uuid.UUID) *msgModel.LiaisonMessageModel {
	return &msgModel.LiaisonMessageModel{
		LiaisonMessageSchoolID: schoolID,
		LiaisonMessageChildID:  r.ChildID,
		LiaisonMessageSenderID: senderID,
		LiaisonMessageSubject:  r.Subject,
		LiaisonMessageBody:     r.Body,
	}
}

type LiaisonMessageResponse struct {
	MessageID string    `json:"message_id"`
	SchoolID  string    `json:"school_id"`
	ChildID   string    `json:"child_id"`
	SenderID  string    `json:"sender_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLiaisonMessageResponse(m *msgModel.LiaisonMessageModel) *LiaisonMessageResponse {
	return &LiaisonMessageResponse{
		MessageID: m.LiaisonMessageID.String(),
		SchoolID:  m.LiaisonMessageSchoolID.String(),
		ChildID:   m.LiaisonMessageChildID.String(),
		SenderID:  m.LiaisonMessageSenderID.String(),
		Subject:   m.LiaisonMessageSubject,
		Body:      m.LiaisonMessageBody,
		CreatedAt: m.CreatedAt,
	}
}
