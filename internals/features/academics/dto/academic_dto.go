// file: internals/features/academics/dto/academic_dto.go
package dto

import (
	"time"

	academicModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/academics/model"
)

// Report card create fields arrive as multipart form values next to the
// document itself.
type CreateReportCardForm struct {
	ChildID    string `form:"child_id" validate:"required,uuid"`
	Term       string `form:"term" validate:"required,min=1,max=30"`
	SchoolYear string `form:"school_year" validate:"required,min=4,max=20"`
}

// Update is partial: blank form values leave the stored fields alone, and
// the replacement document is optional.
type UpdateReportCardForm struct {
	Term       string `form:"term" validate:"omitempty,min=1,max=30"`
	SchoolYear string `form:"school_year" validate:"omitempty,min=4,max=20"`
}

type ReportCardResponse struct {
	ReportCardID string    `json:"report_card_id"`
	SchoolID     string    `json:"school_id"`
	ChildID      string    `json:"child_id"`
	Term         string    `json:"term"`
	SchoolYear   string    `json:"school_year"`
	FileName     string    `json:"file_name"`
	FileLocation string    `json:"file_location"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewReportCardResponse(m *academicModel.ReportCardModel) *ReportCardResponse {
	return &ReportCardResponse{
		ReportCardID: m.ReportCardID.String(),
		SchoolID:     m.ReportCardSchoolID.String(),
		ChildID:      m.ReportCardChildID.String(),
		Term:         m.ReportCardTerm,
		SchoolYear:   m.ReportCardSchoolYear,
		FileName:     m.ReportCardFileName,
		FileLocation: m.ReportCardFileLocation,
		CreatedAt:    m.CreatedAt,
	}
}

type CreateScheduleFileForm struct {
	ClassroomID string `form:"classroom_id" validate:"required,uuid"`
	SchoolYear  string `form:"school_year" validate:"required,min=4,max=20"`
}

type ScheduleFileResponse struct {
	ScheduleFileID string    `json:"schedule_file_id"`
	SchoolID       string    `json:"school_id"`
	ClassroomID    string    `json:"classroom_id"`
	SchoolYear     string    `json:"school_year"`
	FileName       string    `json:"file_name"`
	FileLocation   string    `json:"file_location"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewScheduleFileResponse(m *academicModel.ScheduleFileModel) *ScheduleFileResponse {
	return &ScheduleFileResponse{
		ScheduleFileID: m.ScheduleFileID.String(),
		SchoolID:       m.ScheduleFileSchoolID.String(),
		ClassroomID:    m.ScheduleFileClassroomID.String(),
		SchoolYear:     m.ScheduleFileSchoolYear,
		FileName:       m.ScheduleFileFileName,
		FileLocation:   m.ScheduleFileFileLocation,
		CreatedAt:      m.CreatedAt,
	}
}
