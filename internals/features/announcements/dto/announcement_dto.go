// file: internals/features/announcements/dto/announcement_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	annModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/announcements/model"
)

type CreateAnnouncementRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Body        string     `json:"body" validate:"required"`
	Date        time.Time  `json:"date" validate:"required"`
	ClassroomID *uuid.UUID `json:"classroom_id,omitempty"`
}

func (r *CreateAnnouncementRequest) ToModel(schoolID uuid.UUID) *annModel.AnnouncementModel {
	return &annModel.AnnouncementModel{
		AnnouncementSchoolID:    schoolID,
		AnnouncementClassroomID: r.ClassroomID,
		AnnouncementTitle:       r.Title,
		AnnouncementBody:        r.Body,
		AnnouncementDate:        r.Date,
	}
}

type UpdateAnnouncementRequest struct {
	Title *string    `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Body  *string    `json:"body,omitempty"`
	Date  *time.Time `json:"date,omitempty"`
}

type AnnouncementResponse struct {
	AnnouncementID string     `json:"announcement_id"`
	SchoolID       string     `json:"school_id"`
	ClassroomID    *string    `json:"classroom_id,omitempty"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	Date           time.Time  `json:"date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func NewAnnouncementResponse(m *annModel.AnnouncementModel) *AnnouncementResponse {
	resp := &AnnouncementResponse{
		AnnouncementID: m.AnnouncementID.String(),
		SchoolID:       m.AnnouncementSchoolID.String(),
		Title:          m.AnnouncementTitle,
		Body:           m.AnnouncementBody,
		Date:           m.AnnouncementDate,
		CreatedAt:      m.CreatedAt,
	}
	if m.AnnouncementClassroomID != nil {
		s := m.AnnouncementClassroomID.String()
		resp.ClassroomID = &s
	}
	if !m.UpdatedAt.IsZero() {
		t := m.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

type CreateActivityRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=200"`
	Date        time.Time  `json:"date" validate:"required"`
	ClassroomID *uuid.UUID `json:"classroom_id,omitempty"`
}

func (r *CreateActivityRequest) ToModel(schoolID uuid.UUID) *annModel.ActivityModel {
	return &annModel.ActivityModel{
		ActivitySchoolID:    schoolID,
		ActivityClassroomID: r.ClassroomID,
		ActivityTitle:       r.Title,
		ActivityDescription: r.Description,
		ActivityLocation:    r.Location,
		ActivityDate:        r.Date,
	}
}

type UpdateActivityRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	Date        *time.Time `json:"date,omitempty"`
}

type ActivityResponse struct {
	ActivityID  string    `json:"activity_id"`
	SchoolID    string    `json:"school_id"`
	ClassroomID *string   `json:"classroom_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewActivityResponse(m *annModel.ActivityModel) *ActivityResponse {
	resp := &ActivityResponse{
		ActivityID:  m.ActivityID.String(),
		SchoolID:    m.ActivitySchoolID.String(),
		Title:       m.ActivityTitle,
		Description: m.ActivityDescription,
		Location:    m.ActivityLocation,
		Date:        m.ActivityDate,
		CreatedAt:   m.CreatedAt,
	}
	if m.ActivityClassroomID != nil {
		s := m.ActivityClassroomID.String()
		resp.ClassroomID = &s
	}
	return resp
}
