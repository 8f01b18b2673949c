// file: internals/features/classrooms/dto/classroom_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	model "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
)

/* ===================== REQUESTS ===================== */

type CreateClassroomRequest struct {
	ClassroomName          string     `json:"classroom_name" validate:"required,min=1,max=100"`
	ClassroomCapacity      int        `json:"classroom_capacity" validate:"required,min=1,max=200"`
	ClassroomLeadTeacherID *uuid.UUID `json:"classroom_lead_teacher_id" validate:"omitempty"`
}

func (r CreateClassroomRequest) ToModel(schoolID uuid.UUID) *model.ClassroomModel {
	return &model.ClassroomModel{
		ClassroomSchoolID:      schoolID,
		ClassroomName:          strings.TrimSpace(r.ClassroomName),
		ClassroomCapacity:      r.ClassroomCapacity,
		ClassroomLeadTeacherID: r.ClassroomLeadTeacherID,
	}
}

type UpdateClassroomRequest struct {
	ClassroomName          *string    `json:"classroom_name" validate:"omitempty,min=1,max=100"`
	ClassroomCapacity      *int       `json:"classroom_capacity" validate:"omitempty,min=1,max=200"`
	ClassroomLeadTeacherID *uuid.UUID `json:"classroom_lead_teacher_id" validate:"omitempty"` // uuid.Nil clears the lead
}

/* ===================== RESPONSES ===================== */

type ClassroomResponse struct {
	ClassroomID            string  `json:"classroom_id"`
	ClassroomSchoolID      string  `json:"classroom_school_id"`
	ClassroomName          string  `json:"classroom_name"`
	ClassroomCapacity      int     `json:"classroom_capacity"`
	ClassroomLeadTeacherID *string `json:"classroom_lead_teacher_id,omitempty"`
}

func NewClassroomResponse(m *model.ClassroomModel) *ClassroomResponse {
	if m == nil {
		return nil
	}
	out := &ClassroomResponse{
		ClassroomID:       m.ClassroomID.String(),
		ClassroomSchoolID: m.ClassroomSchoolID.String(),
		ClassroomName:     m.ClassroomName,
		ClassroomCapacity: m.ClassroomCapacity,
	}
	if m.ClassroomLeadTeacherID != nil {
		s := m.ClassroomLeadTeacherID.String()
		out.ClassroomLeadTeacherID = &s
	}
	return out
}
