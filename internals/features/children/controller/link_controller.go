// file: internals/features/children/controller/link_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	childDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/dto"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	userModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// LinkController manages both link kinds. Links are the sole visibility
// grant for parents and teachers, so only admins touch them.
type LinkController struct {
	DB     *gorm.DB
	Policy *policy.Engine
}

func NewLinkController(db *gorm.DB, eng *policy.Engine) *LinkController {
	return &LinkController{DB: db, Policy: eng}
}

// ===================== CREATE PARENT LINK =====================
// POST /api/tenants/:school_id/links/parents (admin)
func (h *LinkController) CreateParentLink(c *fiber.Ctx) error {
	ac, schoolID, req, err := h.manageAndParse(c)
	if err != nil {
		return err
	}

	if err := h.ensureMemberWithRole(req.UserID, schoolID, constants.RoleParent); err != nil {
		return err
	}
	if err := h.ensureChildInSchool(req.ChildID, schoolID); err != nil {
		return err
	}

	var n int64
	if err := h.DB.Model(&childModel.ParentChildLinkModel{}).
		Where("parent_child_link_parent_id = ? AND parent_child_link_child_id = ?", req.UserID, req.ChildID).
		Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n > 0 {
		return helper.ErrConflict("parent is already linked to this child")
	}

	m := &childModel.ParentChildLinkModel{
		ParentChildLinkSchoolID: schoolID,
		ParentChildLinkParentID: req.UserID,
		ParentChildLinkChildID:  req.ChildID,
	}
	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "parent linked", childDTO.LinkResponse{
		LinkID:  m.ParentChildLinkID.String(),
		UserID:  m.ParentChildLinkParentID.String(),
		ChildID: m.ParentChildLinkChildID.String(),
	})
}

// ===================== CREATE TEACHER LINK =====================
// POST /api/tenants/:school_id/links/teachers (admin)
func (h *LinkController) CreateTeacherLink(c *fiber.Ctx) error {
	ac, schoolID, req, err := h.manageAndParse(c)
	if err != nil {
		return err
	}

	if err := h.ensureMemberWithRole(req.UserID, schoolID, constants.RoleTeacher); err != nil {
		return err
	}
	if err := h.ensureChildInSchool(req.ChildID, schoolID); err != nil {
		return err
	}

	var n int64
	if err := h.DB.Model(&childModel.TeacherChildLinkModel{}).
		Where("teacher_child_link_teacher_id = ? AND teacher_child_link_child_id = ?", req.UserID, req.ChildID).
		Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n > 0 {
		return helper.ErrConflict("teacher is already linked to this child")
	}

	m := &childModel.TeacherChildLinkModel{
		TeacherChildLinkSchoolID:  schoolID,
		TeacherChildLinkTeacherID: req.UserID,
		TeacherChildLinkChildID:   req.ChildID,
	}
	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "teacher linked", childDTO.LinkResponse{
		LinkID:  m.TeacherChildLinkID.String(),
		UserID:  m.TeacherChildLinkTeacherID.String(),
		ChildID: m.TeacherChildLinkChildID.String(),
	})
}

// ===================== LIST =====================
// GET /api/tenants/:school_id/links/parents?child_id=&user_id= (admin)
func (h *LinkController) ListParentLinks(c *fiber.Ctx) error {
	_, schoolID, err := h.manageOnly(c)
	if err != nil {
		return err
	}

	tx := h.DB.Model(&childModel.ParentChildLinkModel{}).
		Where("parent_child_link_school_id = ?", schoolID)
	if raw := strings.TrimSpace(c.Query("child_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("child_id is not a valid uuid")
		}
		tx = tx.Where("parent_child_link_child_id = ?", id)
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("user_id is not a valid uuid")
		}
		tx = tx.Where("parent_child_link_parent_id = ?", id)
	}

	var rows []childModel.ParentChildLinkModel
	if err := tx.Order("parent_child_link_created_at DESC").Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}
	items := make([]childDTO.LinkResponse, 0, len(rows))
	for i := range rows {
		items = append(items, childDTO.LinkResponse{
			LinkID:  rows[i].ParentChildLinkID.String(),
			UserID:  rows[i].ParentChildLinkParentID.String(),
			ChildID: rows[i].ParentChildLinkChildID.String(),
		})
	}
	return helper.JsonOK(c, "parent links", items)
}

// GET /api/tenants/:school_id/links/teachers?child_id=&user_id= (admin)
func (h *LinkController) ListTeacherLinks(c *fiber.Ctx) error {
	_, schoolID, err := h.manageOnly(c)
	if err != nil {
		return err
	}

	tx := h.DB.Model(&childModel.TeacherChildLinkModel{}).
		Where("teacher_child_link_school_id = ?", schoolID)
	if raw := strings.TrimSpace(c.Query("child_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("child_id is not a valid uuid")
		}
		tx = tx.Where("teacher_child_link_child_id = ?", id)
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("user_id is not a valid uuid")
		}
		tx = tx.Where("teacher_child_link_teacher_id = ?", id)
	}

	var rows []childModel.TeacherChildLinkModel
	if err := tx.Order("teacher_child_link_created_at DESC").Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}
	items := make([]childDTO.LinkResponse, 0, len(rows))
	for i := range rows {
		items = append(items, childDTO.LinkResponse{
			LinkID:  rows[i].TeacherChildLinkID.String(),
			UserID:  rows[i].TeacherChildLinkTeacherID.String(),
			ChildID: rows[i].TeacherChildLinkChildID.String(),
		})
	}
	return helper.JsonOK(c, "teacher links", items)
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id/links/parents/:id (admin, soft)
func (h *LinkController) DeleteParentLink(c *fiber.Ctx) error {
	ac, schoolID, err := h.manageOnly(c)
	if err != nil {
		return err
	}
	linkID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("link")
	}

	var m childModel.ParentChildLinkModel
	if err := h.DB.Where("parent_child_link_id = ? AND parent_child_link_school_id = ?", linkID, schoolID).
		First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrNotFound("link")
		}
		return helper.ErrInternal(err)
	}
	if err := lifecycle.SoftDelete(h.DB, &m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "parent link removed", fiber.Map{"link_id": linkID})
}

// DELETE /api/tenants/:school_id/links/teachers/:id (admin, soft)
func (h *LinkController) DeleteTeacherLink(c *fiber.Ctx) error {
	ac, schoolID, err := h.manageOnly(c)
	if err != nil {
		return err
	}
	linkID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("link")
	}

	var m childModel.TeacherChildLinkModel
	if err := h.DB.Where("teacher_child_link_id = ? AND teacher_child_link_school_id = ?", linkID, schoolID).
		First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrNotFound("link")
		}
		return helper.ErrInternal(err)
	}
	if err := lifecycle.SoftDelete(h.DB, &m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "teacher link removed", fiber.Map{"link_id": linkID})
}

/* ===================== internals ===================== */

func (h *LinkController) manageOnly(c *fiber.Ctx) (helperAuth.AuthContext, uuid.UUID, error) {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return ac, uuid.Nil, err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return ac, uuid.Nil, err
	}
	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
	if err != nil {
		return ac, uuid.Nil, helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return ac, uuid.Nil, helper.ErrAuthorization("link management is restricted")
	}
	return ac, schoolID, nil
}

func (h *LinkController) manageAndParse(c *fiber.Ctx) (helperAuth.AuthContext, uuid.UUID, childDTO.CreateLinkRequest, error) {
	var req childDTO.CreateLinkRequest
	ac, schoolID, err := h.manageOnly(c)
	if err != nil {
		return ac, schoolID, req, err
	}
	if err := c.BodyParser(&req); err != nil {
		return ac, schoolID, req, helper.ErrValidation("malformed payload")
	}
	if req.UserID == uuid.Nil || req.ChildID == uuid.Nil {
		return ac, schoolID, req, helper.ErrValidation("user_id and child_id are required")
	}
	return ac, schoolID, req, nil
}

func (h *LinkController) ensureMemberWithRole(userID, schoolID uuid.UUID, role constants.Role) error {
	var u userModel.UserModel
	if err := h.DB.Where("user_id = ? AND user_school_id = ? AND user_is_active = ?", userID, schoolID, true).
		First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrValidation("user not found in this school")
		}
		return helper.ErrInternal(err)
	}
	if !u.HasRole(role) {
		return helper.ErrValidation("user does not hold the " + role.String() + " role")
	}
	return nil
}

func (h *LinkController) ensureChildInSchool(childID, schoolID uuid.UUID) error {
	var n int64
	if err := h.DB.Model(&childModel.ChildModel{}).
		Where("child_id = ? AND child_school_id = ?", childID, schoolID).
		Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n == 0 {
		return helper.ErrValidation("child does not belong to this school")
	}
	return nil
}
