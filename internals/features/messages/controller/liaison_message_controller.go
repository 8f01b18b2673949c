// file: internals/features/messages/controller/liaison_message_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	msgDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/messages/dto"
	msgModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/messages/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/scope"
)

var validateMessage = validator.New()

// LiaisonMessageController is the one surface where relationship roles
// write: a teacher or parent connected to the child may post, not just
// admins.
type LiaisonMessageController struct {
	DB     *gorm.DB
	Policy *policy.Engine
}

func NewLiaisonMessageController(db *gorm.DB, eng *policy.Engine) *LiaisonMessageController {
	return &LiaisonMessageController{DB: db, Policy: eng}
}

// ===================== LIST =====================
// GET /api/tenants/:school_id/messages?child_id=<uuid>
//
// The thread is child-scoped: the caller must be able to access that
// child. Without child_id, admins get the tenant feed and relationship
// roles get the threads of their visible children.
func (h *LiaisonMessageController) List(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	tx := h.DB.Model(&msgModel.LiaisonMessageModel{}).
		Scopes(scope.Tenant("liaison_message_school_id", schoolID))

	if raw := strings.TrimSpace(c.Query("child_id")); raw != "" {
		childID, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("child_id is not a valid uuid")
		}
		if err := h.authorizeChildRead(c, ac, schoolID, childID); err != nil {
			return err
		}
		tx = tx.Where("liaison_message_child_id = ?", childID)
	} else {
		dec, err := h.Policy.Decide(c.UserContext(), ac.Principal(), schoolID, constants.SchoolMembers, nil, nil)
		if err != nil {
			return helper.ErrInternal(err)
		}
		if !dec.Allowed() {
			return helper.ErrAuthorization("not a member of this school")
		}
		admin := ac.IsSuperAdmin() || ac.HasRole(constants.RoleAdmin)
		if !admin {
			visible, err := scope.LinkedChildIDs(h.DB, ac.UserID,
				ac.HasRole(constants.RoleTeacher), ac.HasRole(constants.RoleParent))
			if err != nil {
				return helper.ErrInternal(err)
			}
			tx = tx.Scopes(scope.ChildIn("liaison_message_child_id", visible))
		}
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "liaison_message_created_at",
		"subject":    "liaison_message_subject",
	}, "created_at")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []msgModel.LiaisonMessageModel
	if err := tx.Order(order).Scopes(scope.Paginate(p)).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*msgDTO.LiaisonMessageResponse, 0, len(rows))
	for i := range rows {
		items = append(items, msgDTO.NewLiaisonMessageResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// ===================== CREATE =====================
// POST /api/tenants/:school_id/messages
func (h *LiaisonMessageController) Create(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}

	var req msgDTO.CreateLiaisonMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateMessage.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}
	if err := h.ensureChildInSchool(req.ChildID, schoolID); err != nil {
		return err
	}

	rel := &policy.Relation{
		ChildID:     &req.ChildID,
		ManageRoles: []constants.Role{constants.RoleTeacher, constants.RoleParent},
	}
	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, rel)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrNotFound("child")
	}

	m := req.ToModel(schoolID, ac.UserID)
	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "message sent", msgDTO.NewLiaisonMessageResponse(m))
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id/messages/:id (admin or sender, soft)
func (h *LiaisonMessageController) Delete(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	msgID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("message")
	}

	var m msgModel.LiaisonMessageModel
	if err := h.DB.Where("liaison_message_id = ? AND liaison_message_school_id = ?", msgID, schoolID).
		First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrNotFound("message")
		}
		return helper.ErrInternal(err)
	}

	if m.LiaisonMessageSenderID != ac.UserID {
		dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
		if err != nil {
			return helper.ErrInternal(err)
		}
		if !dec.Allowed() {
			return helper.ErrNotFound("message")
		}
	}

	if err := lifecycle.SoftDelete(h.DB, &m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "message removed", fiber.Map{"message_id": msgID})
}

/* ===================== internals ===================== */

func (h *LiaisonMessageController) authorizeChildRead(c *fiber.Ctx, ac helperAuth.AuthContext, schoolID, childID uuid.UUID) error {
	if err := h.ensureChildInSchool(childID, schoolID); err != nil {
		return err
	}
	dec, err := h.Policy.CanAccess(c.UserContext(), ac.Principal(), schoolID,
		&policy.Relation{ChildID: &childID})
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrNotFound("child")
	}
	return nil
}

func (h *LiaisonMessageController) ensureChildInSchool(childID, schoolID uuid.UUID) error {
	var n int64
	if err := h.DB.Model(&childModel.ChildModel{}).
		Where("child_id = ? AND child_school_id = ?", childID, schoolID).
		Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n == 0 {
		return helper.ErrNotFound("child")
	}
	return nil
}
