// file: internals/features/children/dto/child_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	model "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
)

/* ===================== REQUESTS ===================== */

type CreateChildRequest struct {
	ChildFirstName   string     `json:"child_first_name" validate:"required,min=1,max=100"`
	ChildLastName    string     `json:"child_last_name" validate:"required,min=1,max=100"`
	ChildClassroomID *uuid.UUID `json:"child_classroom_id" validate:"omitempty"`
}

func (r CreateChildRequest) ToModel(schoolID uuid.UUID, schoolYear string) *model.ChildModel {
	return &model.ChildModel{
		ChildSchoolID:    schoolID,
		ChildClassroomID: r.ChildClassroomID,
		ChildFirstName:   strings.TrimSpace(r.ChildFirstName),
		ChildLastName:    strings.TrimSpace(r.ChildLastName),
		ChildStatus:      constants.ChildPreRegistered,
		ChildSchoolYear:  schoolYear,
	}
}

type UpdateChildRequest struct {
	ChildFirstName   *string    `json:"child_first_name" validate:"omitempty,min=1,max=100"`
	ChildLastName    *string    `json:"child_last_name" validate:"omitempty,min=1,max=100"`
	ChildClassroomID *uuid.UUID `json:"child_classroom_id" validate:"omitempty"` // uuid.Nil detaches
	ChildStatus      *string    `json:"child_status" validate:"omitempty"`
}

type CreateLinkRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	ChildID uuid.UUID `json:"child_id" validate:"required"`
}

/* ===================== RESPONSES ===================== */

type ChildResponse struct {
	ChildID          string  `json:"child_id"`
	ChildSchoolID    string  `json:"child_school_id"`
	ChildClassroomID *string `json:"child_classroom_id,omitempty"`
	ChildFirstName   string  `json:"child_first_name"`
	ChildLastName    string  `json:"child_last_name"`
	ChildStatus      string  `json:"child_status"`
	ChildSchoolYear  string  `json:"child_school_year"`
}

func NewChildResponse(m *model.ChildModel) *ChildResponse {
	if m == nil {
		return nil
	}
	out := &ChildResponse{
		ChildID:         m.ChildID.String(),
		ChildSchoolID:   m.ChildSchoolID.String(),
		ChildFirstName:  m.ChildFirstName,
		ChildLastName:   m.ChildLastName,
		ChildStatus:     m.ChildStatus.String(),
		ChildSchoolYear: m.ChildSchoolYear,
	}
	if m.ChildClassroomID != nil {
		s := m.ChildClassroomID.String()
		out.ChildClassroomID = &s
	}
	return out
}

type LinkResponse struct {
	LinkID  string `json:"link_id"`
	UserID  string `json:"user_id"`
	ChildID string `json:"child_id"`
}
