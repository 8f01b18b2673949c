// file: internals/features/users/controller/user_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	userDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/dto"
	userModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	userService "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/service"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

type UserController struct {
	DB          *gorm.DB
	Policy      *policy.Engine
	Credentials userService.CredentialStore
	Log         *zap.Logger
}

func NewUserController(db *gorm.DB, eng *policy.Engine, creds userService.CredentialStore, log *zap.Logger) *UserController {
	return &UserController{DB: db, Policy: eng, Credentials: creds, Log: log}
}

var validateUser = validator.New()

// ===================== LOGIN =====================
// POST /api/auth/login
func (h *UserController) Login(c *fiber.Ctx) error {
	var req userDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateUser.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	u, err := h.Credentials.Authenticate(c.UserContext(), h.DB, req.Email, req.Password)
	if err != nil {
		return err
	}
	token, err := userService.IssueAccessToken(u)
	if err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonOK(c, "authenticated", userDTO.LoginResponse{
		AccessToken: token,
		User:        userDTO.NewUserResponse(u),
	})
}

// ===================== LIST =====================
// GET /api/tenants/:school_id/users (admin)
func (h *UserController) List(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}

	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrAuthorization("user directory is restricted")
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	tx := h.DB.Model(&userModel.UserModel{}).Where("user_school_id = ?", schoolID)
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		if _, err := constants.ParseRole(role); err != nil {
			return helper.ErrValidation("unknown role filter")
		}
		tx = tx.Where("user_roles::text LIKE ?", "%"+strings.ToLower(role)+"%")
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "user_created_at",
		"name":       "user_full_name",
		"email":      "user_email",
	}, "created_at")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []userModel.UserModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*userDTO.UserResponse, 0, len(rows))
	for i := range rows {
		items = append(items, userDTO.NewUserResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// ===================== DETAIL =====================
// GET /api/tenants/:school_id/users/:id (self or admin)
func (h *UserController) GetByID(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("user")
	}

	if ac.UserID != userID {
		dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
		if err != nil {
			return helper.ErrInternal(err)
		}
		if !dec.Allowed() {
			return helper.ErrAuthorization("profile is restricted")
		}
	}

	u, err := h.findInTenant(userID, schoolID, ac.IsSuperAdmin())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "user", userDTO.NewUserResponse(u))
}

// ===================== CREATE =====================
// POST /api/tenants/:school_id/users (admin; super-admin grants only by a super admin)
func (h *UserController) Create(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}

	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrAuthorization("account creation is restricted")
	}

	var req userDTO.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateUser.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	roles := make([]constants.Role, 0, len(req.UserRoles))
	for _, s := range req.UserRoles {
		r, err := constants.ParseRole(s)
		if err != nil {
			return helper.ErrValidation(err.Error())
		}
		roles = append(roles, r)
	}

	accountSchool := &schoolID
	if constants.HasRole(roles, constants.RoleSuperAdmin) {
		if !ac.IsSuperAdmin() {
			return helper.ErrAuthorization("only a super admin may grant the super-admin role")
		}
		accountSchool = nil
	}

	u, err := h.Credentials.CreateAccount(c.UserContext(), h.DB, userService.NewAccount{
		SchoolID:  accountSchool,
		FullName:  req.UserFullName,
		Email:     req.UserEmail,
		Password:  req.UserPassword,
		Roles:     roles,
		CreatedBy: &ac.UserID,
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "account created", userDTO.NewUserResponse(u))
}

// ===================== UPDATE =====================
// PUT /api/tenants/:school_id/users/:id (self or admin)
//
// Deactivating the last remaining active super admin is refused.
func (h *UserController) Update(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("user")
	}

	if ac.UserID != userID {
		dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
		if err != nil {
			return helper.ErrInternal(err)
		}
		if !dec.Allowed() {
			return helper.ErrAuthorization("profile is restricted")
		}
	}

	u, err := h.findInTenant(userID, schoolID, ac.IsSuperAdmin())
	if err != nil {
		return err
	}

	var req userDTO.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateUser.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	if req.UserIsActive != nil && !*req.UserIsActive && u.HasRole(constants.RoleSuperAdmin) {
		if err := h.guardLastSuperAdmin(u.UserID); err != nil {
			return err
		}
	}

	updates := map[string]interface{}{}
	if req.UserFullName != nil {
		updates["user_full_name"] = strings.TrimSpace(*req.UserFullName)
	}
	if req.UserIsActive != nil {
		updates["user_is_active"] = *req.UserIsActive
	}
	if len(updates) == 0 {
		return helper.JsonUpdated(c, "no changes", userDTO.NewUserResponse(u))
	}
	updates["user_updated_by"] = ac.UserID

	if err := h.DB.Model(&userModel.UserModel{}).
		Where("user_id = ?", u.UserID).
		Updates(updates).Error; err != nil {
		return helper.ErrInternal(err)
	}

	after, err := h.findInTenant(userID, schoolID, ac.IsSuperAdmin())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "user updated", userDTO.NewUserResponse(after))
}

// ===================== RESET PASSWORD =====================
// POST /api/tenants/:school_id/users/:id/reset-password (self or admin)
func (h *UserController) ResetPassword(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("user")
	}

	if ac.UserID != userID {
		dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
		if err != nil {
			return helper.ErrInternal(err)
		}
		if !dec.Allowed() {
			return helper.ErrAuthorization("password reset is restricted")
		}
	}

	var req struct {
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateUser.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	if _, err := h.findInTenant(userID, schoolID, ac.IsSuperAdmin()); err != nil {
		return err
	}
	if err := h.Credentials.ResetPassword(c.UserContext(), h.DB, userID, req.NewPassword); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "password reset", fiber.Map{"user_id": userID})
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id/users/:id (admin or super admin)
//
// Principal deletion is physical: the identity/credential record goes
// away. Guards, in order: never yourself; never the last active super
// admin; an admin cannot remove a parent that still holds alive child
// links. A super admin may: the alive links are soft-deleted in the same
// transaction and the affected count is logged for audit.
func (h *UserController) Delete(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("user")
	}

	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrAuthorization("account removal is restricted")
	}

	if ac.UserID == userID {
		return helper.ErrInvariant("an account cannot delete itself")
	}

	u, err := h.findInTenant(userID, schoolID, ac.IsSuperAdmin())
	if err != nil {
		return err
	}

	if u.HasRole(constants.RoleSuperAdmin) {
		if err := h.guardLastSuperAdmin(u.UserID); err != nil {
			return err
		}
	}

	var aliveLinks int64
	if err := h.DB.Model(&childModel.ParentChildLinkModel{}).
		Where("parent_child_link_parent_id = ?", u.UserID).
		Count(&aliveLinks).Error; err != nil {
		return helper.ErrInternal(err)
	}

	if aliveLinks > 0 && !ac.IsSuperAdmin() {
		return helper.ErrInvariant("parent still holds active child links; remove the links first")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if aliveLinks > 0 {
			if err := tx.Model(&childModel.ParentChildLinkModel{}).
				Where("parent_child_link_parent_id = ?", u.UserID).
				UpdateColumn("parent_child_link_deleted_by", ac.UserID).Error; err != nil {
				return err
			}
			if err := tx.Where("parent_child_link_parent_id = ?", u.UserID).
				Delete(&childModel.ParentChildLinkModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&childModel.TeacherChildLinkModel{}).
			Where("teacher_child_link_teacher_id = ?", u.UserID).
			UpdateColumn("teacher_child_link_deleted_by", ac.UserID).Error; err != nil {
			return err
		}
		if err := tx.Where("teacher_child_link_teacher_id = ?", u.UserID).
			Delete(&childModel.TeacherChildLinkModel{}).Error; err != nil {
			return err
		}
		// identity record goes away for real
		return tx.Unscoped().Where("user_id = ?", u.UserID).
			Delete(&userModel.UserModel{}).Error
	})
	if err != nil {
		return helper.ErrInternal(err)
	}

	h.Log.Info("principal deleted",
		zap.String("user_id", u.UserID.String()),
		zap.String("deleted_by", ac.UserID.String()),
		zap.Int64("links_soft_deleted", aliveLinks))

	return helper.JsonDeleted(c, "account removed", fiber.Map{"user_id": u.UserID})
}

/* ===================== internals ===================== */

// findInTenant resolves a principal for a tenant-scoped endpoint. Super-
// admin accounts carry no school id; they resolve only when the caller
// may reach across tenants.
func (h *UserController) findInTenant(userID, schoolID uuid.UUID, includePlatform bool) (*userModel.UserModel, error) {
	tx := h.DB.Where("user_id = ?", userID)
	if includePlatform {
		tx = tx.Where("(user_school_id = ? OR user_school_id IS NULL)", schoolID)
	} else {
		tx = tx.Where("user_school_id = ?", schoolID)
	}
	var u userModel.UserModel
	if err := tx.First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helper.ErrNotFound("user")
		}
		return nil, helper.ErrInternal(err)
	}
	return &u, nil
}

// guardLastSuperAdmin refuses to retire the given super admin when no
// other active one remains.
func (h *UserController) guardLastSuperAdmin(exceptID uuid.UUID) error {
	var rows []userModel.UserModel
	if err := h.DB.
		Where("user_id <> ? AND user_is_active = ?", exceptID, true).
		Where("user_school_id IS NULL").
		Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}
	for i := range rows {
		if rows[i].HasRole(constants.RoleSuperAdmin) {
			return nil
		}
	}
	return helper.ErrInvariant("cannot retire the last active super admin")
}
