// file: internals/features/users/dto/user_dto.go
package dto

import (
	model "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
)

/* ===================== REQUESTS ===================== */

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type CreateUserRequest struct {
	UserFullName string   `json:"user_full_name" validate:"required,min=3,max=150"`
	UserEmail    string   `json:"user_email" validate:"required,email"`
	UserPassword string   `json:"user_password" validate:"required,min=8"`
	UserRoles    []string `json:"user_roles" validate:"required,min=1,dive,required"`
}

type UpdateUserRequest struct {
	UserFullName *string `json:"user_full_name" validate:"omitempty,min=3,max=150"`
	UserIsActive *bool   `json:"user_is_active" validate:"omitempty"`
}

/* ===================== RESPONSES ===================== */

type UserResponse struct {
	UserID       string   `json:"user_id"`
	UserSchoolID *string  `json:"user_school_id,omitempty"`
	UserFullName string   `json:"user_full_name"`
	UserEmail    string   `json:"user_email"`
	UserRoles    []string `json:"user_roles"`
	UserIsActive bool     `json:"user_is_active"`
}

func NewUserResponse(m *model.UserModel) *UserResponse {
	if m == nil {
		return nil
	}
	roles := m.Roles()
	strRoles := make([]string, 0, len(roles))
	for _, r := range roles {
		strRoles = append(strRoles, r.String())
	}
	out := &UserResponse{
		UserID:       m.UserID.String(),
		UserFullName: m.UserFullName,
		UserEmail:    m.UserEmail,
		UserRoles:    strRoles,
		UserIsActive: m.UserIsActive,
	}
	if m.UserSchoolID != nil {
		s := m.UserSchoolID.String()
		out.UserSchoolID = &s
	}
	return out
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}
