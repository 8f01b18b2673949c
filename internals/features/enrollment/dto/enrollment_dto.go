// file: internals/features/enrollment/dto/enrollment_dto.go
package dto

import (
	"github.com/google/uuid"

	saga "github.com/DevMick/Web-API-Froebel-sub000/internals/features/enrollment/service"
)

type GuardianPayload struct {
	FullName string `json:"full_name" validate:"required,min=2,max=150"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type ChildPayload struct {
	FirstName   string     `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string     `json:"last_name" validate:"required,min=1,max=100"`
	ClassroomID *uuid.UUID `json:"classroom_id,omitempty"`
}

type EnrollmentRequest struct {
	Guardian GuardianPayload `json:"guardian" validate:"required"`
	Children []ChildPayload  `json:"children" validate:"required,min=1,dive"`
}

func (r *EnrollmentRequest) ToInput() saga.EnrollmentInput {
	in := saga.EnrollmentInput{
		Guardian: saga.GuardianInput{
			FullName: r.Guardian.FullName,
			Email:    r.Guardian.Email,
			Password: r.Guardian.Password,
		},
	}
	for _, ch := range r.Children {
		in.Children = append(in.Children, saga.ChildInput{
			FirstName:   ch.FirstName,
			LastName:    ch.LastName,
			ClassroomID: ch.ClassroomID,
		})
	}
	return in
}

type EnrollmentResponse struct {
	GuardianID string   `json:"guardian_id"`
	SchoolID   string   `json:"school_id"`
	ChildIDs   []string `json:"child_ids"`
	SchoolYear string   `json:"school_year"`
}

func NewEnrollmentResponse(res *saga.EnrollmentResult) *EnrollmentResponse {
	out := &EnrollmentResponse{
		GuardianID: res.GuardianID.String(),
		SchoolID:   res.SchoolID.String(),
		SchoolYear: res.SchoolYear,
	}
	for _, id := range res.ChildIDs {
		out.ChildIDs = append(out.ChildIDs, id.String())
	}
	return out
}
