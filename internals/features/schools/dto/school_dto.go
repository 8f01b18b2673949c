// file: internals/features/schools/dto/school_dto.go
package dto

import (
	"strings"

	model "github.com/DevMick/Web-API-Froebel-sub000/internals/features/schools/model"
)

/* ===================== REQUESTS ===================== */

type CreateSchoolRequest struct {
	SchoolName         string `json:"school_name" validate:"required,min=3,max=200"`
	SchoolCode         string `json:"school_code" validate:"required,min=2,max=30"`
	SchoolContactEmail string `json:"school_contact_email" validate:"required,email"`
	SchoolCurrentYear  string `json:"school_current_year" validate:"required,min=4,max=20"`
}

func (r CreateSchoolRequest) ToModel() *model.SchoolModel {
	return &model.SchoolModel{
		SchoolName:         strings.TrimSpace(r.SchoolName),
		SchoolCode:         strings.ToLower(strings.TrimSpace(r.SchoolCode)),
		SchoolContactEmail: strings.ToLower(strings.TrimSpace(r.SchoolContactEmail)),
		SchoolCurrentYear:  strings.TrimSpace(r.SchoolCurrentYear),
	}
}

type UpdateSchoolRequest struct {
	SchoolName         *string `json:"school_name" validate:"omitempty,min=3,max=200"`
	SchoolContactEmail *string `json:"school_contact_email" validate:"omitempty,email"`
	SchoolCurrentYear  *string `json:"school_current_year" validate:"omitempty,min=4,max=20"`
}

// ApplyToModel applies only the fields sent. The code is identity and is
// not updatable once the school exists.
func (r *UpdateSchoolRequest) ApplyToModel(m *model.SchoolModel) {
	if r.SchoolName != nil {
		m.SchoolName = strings.TrimSpace(*r.SchoolName)
	}
	if r.SchoolContactEmail != nil {
		m.SchoolContactEmail = strings.ToLower(strings.TrimSpace(*r.SchoolContactEmail))
	}
	if r.SchoolCurrentYear != nil {
		m.SchoolCurrentYear = strings.TrimSpace(*r.SchoolCurrentYear)
	}
}

/* ===================== RESPONSES ===================== */

type SchoolResponse struct {
	SchoolID           string `json:"school_id"`
	SchoolName         string `json:"school_name"`
	SchoolCode         string `json:"school_code"`
	SchoolContactEmail string `json:"school_contact_email"`
	SchoolCurrentYear  string `json:"school_current_year"`
}

func NewSchoolResponse(m *model.SchoolModel) *SchoolResponse {
	if m == nil {
		return nil
	}
	return &SchoolResponse{
		SchoolID:           m.SchoolID.String(),
		SchoolName:         m.SchoolName,
		SchoolCode:         m.SchoolCode,
		SchoolContactEmail: m.SchoolContactEmail,
		SchoolCurrentYear:  m.SchoolCurrentYear,
	}
}
