// file: internals/features/users/model/user_model.go
package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
)

// UserModel is a principal. It belongs to exactly one school; only a
// super admin carries no school at all. Unlike every other entity the
// row is removed physically on delete — it is the identity/credential
// record — and the guards live in the controller.
type UserModel struct {
	UserID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	UserSchoolID *uuid.UUID     `gorm:"type:uuid;index;<-:create" json:"user_school_id,omitempty"`
	UserFullName string         `gorm:"size:150;not null" json:"user_full_name"`
	UserEmail    string         `gorm:"size:255;not null;uniqueIndex" json:"user_email"`
	UserPassword string         `gorm:"not null" json:"-"`
	UserRoles    datatypes.JSON `gorm:"not null" json:"user_roles"`
	UserIsActive bool           `gorm:"not null;default:true" json:"user_is_active"`

	UserCreatedBy *uuid.UUID `gorm:"type:uuid;<-:create" json:"user_created_by,omitempty"`
	UserCreatedAt time.Time  `gorm:"autoCreateTime" json:"user_created_at"`
	UserUpdatedBy *uuid.UUID `gorm:"type:uuid" json:"user_updated_by,omitempty"`
	UserUpdatedAt time.Time  `gorm:"autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}

/* ===============================
   Role set (JSON column)
=================================*/

func (m *UserModel) SetRoles(roles []constants.Role) error {
	raw, err := sonic.Marshal(roles)
	if err != nil {
		return err
	}
	m.UserRoles = datatypes.JSON(raw)
	return nil
}

func (m *UserModel) Roles() []constants.Role {
	var raw []string
	if err := sonic.Unmarshal(m.UserRoles, &raw); err != nil {
		return nil
	}
	out := make([]constants.Role, 0, len(raw))
	for _, s := range raw {
		if r, err := constants.ParseRole(s); err == nil {
			out = append(out, r)
		}
	}
	return out
}

func (m *UserModel) HasRole(r constants.Role) bool {
	return constants.HasRole(m.Roles(), r)
}
