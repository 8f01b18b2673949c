// file: internals/features/announcements/controller/announcement_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	annDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/announcements/dto"
	annModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/announcements/model"
	classModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/scope"
)

var validateAnnouncement = validator.New()

type AnnouncementController struct {
	DB     *gorm.DB
	Policy *policy.Engine
}

func NewAnnouncementController(db *gorm.DB, eng *policy.Engine) *AnnouncementController {
	return &AnnouncementController{DB: db, Policy: eng}
}

// ===================== LIST =====================
// GET /api/tenants/:school_id/announcements
//
// Admins read the full tenant feed. Teachers and parents read general
// announcements plus the ones targeting classrooms they are connected to.
func (h *AnnouncementController) List(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}

	dec, err := h.Policy.Decide(c.UserContext(), ac.Principal(), schoolID, constants.SchoolMembers, nil, nil)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrAuthorization("not a member of this school")
	}

	p := helper.ParseFiber(c, "date", "desc", helper.DefaultOpts)

	tx := h.DB.Model(&annModel.AnnouncementModel{}).
		Scopes(scope.Tenant("announcement_school_id", schoolID))

	admin := ac.IsSuperAdmin() || ac.HasRole(constants.RoleAdmin)
	if !admin {
		rooms, err := scope.LinkedClassroomIDs(h.DB, ac.UserID,
			ac.HasRole(constants.RoleTeacher), ac.HasRole(constants.RoleParent))
		if err != nil {
			return helper.ErrInternal(err)
		}
		tx = tx.Scopes(scope.TargetedOrGeneral("announcement_classroom_id", rooms))
	}

	if raw := strings.TrimSpace(c.Query("classroom_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("classroom_id is not a valid uuid")
		}
		tx = tx.Where("announcement_classroom_id = ?", id)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"date":       "announcement_date",
		"title":      "announcement_title",
		"created_at": "announcement_created_at",
	}, "date")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []annModel.AnnouncementModel
	if err := tx.Order(order).Scopes(scope.Paginate(p)).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*annDTO.AnnouncementResponse, 0, len(rows))
	for i := range rows {
		items = append(items, annDTO.NewAnnouncementResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// ===================== DETAIL =====================
// GET /api/tenants/:school_id/announcements/:id
func (h *AnnouncementController) GetByID(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	annID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("announcement")
	}

	m, err := h.findInTenant(annID, schoolID)
	if err != nil {
		return err
	}

	var rel *policy.Relation
	if m.AnnouncementClassroomID != nil {
		rel = &policy.Relation{ClassroomID: m.AnnouncementClassroomID}
	}
	dec, err := h.Policy.CanAccess(c.UserContext(), ac.Principal(), schoolID, rel)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrNotFound("announcement")
	}
	return helper.JsonOK(c, "announcement detail", annDTO.NewAnnouncementResponse(m))
}

// ===================== CREATE =====================
// POST /api/tenants/:school_id/announcements (admin)
func (h *AnnouncementController) Create(c *fiber.Ctx) error {
	ac, schoolID, err := h.manage(c)
	if err != nil {
		return err
	}

	var req annDTO.CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateAnnouncement.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}
	if req.ClassroomID != nil {
		if err := ensureClassroomAlive(h.DB, *req.ClassroomID, schoolID); err != nil {
			return err
		}
	}

	m := req.ToModel(schoolID)
	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "announcement published", annDTO.NewAnnouncementResponse(m))
}

// ===================== UPDATE =====================
// PUT /api/tenants/:school_id/announcements/:id (admin)
func (h *AnnouncementController) Update(c *fiber.Ctx) error {
	ac, schoolID, err := h.manage(c)
	if err != nil {
		return err
	}
	annID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("announcement")
	}
	m, err := h.findInTenant(annID, schoolID)
	if err != nil {
		return err
	}

	var req annDTO.UpdateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateAnnouncement.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	patch := map[string]interface{}{}
	if req.Title != nil {
		patch["announcement_title"] = *req.Title
	}
	if req.Body != nil {
		patch["announcement_body"] = *req.Body
	}
	if req.Date != nil {
		patch["announcement_date"] = *req.Date
	}
	if len(patch) == 0 {
		return helper.ErrValidation("nothing to update")
	}
	patch["announcement_updated_by"] = ac.UserID

	if err := h.DB.Model(m).Updates(patch).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonUpdated(c, "announcement updated", annDTO.NewAnnouncementResponse(m))
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id/announcements/:id (admin, soft)
func (h *AnnouncementController) Delete(c *fiber.Ctx) error {
	ac, schoolID, err := h.manage(c)
	if err != nil {
		return err
	}
	annID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("announcement")
	}
	m, err := h.findInTenant(annID, schoolID)
	if err != nil {
		return err
	}
	if err := lifecycle.SoftDelete(h.DB, m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "announcement removed", fiber.Map{"announcement_id": annID})
}

/* ===================== internals ===================== */

func (h *AnnouncementController) manage(c *fiber.Ctx) (helperAuth.AuthContext, uuid.UUID, error) {
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
		return ac, uuid.Nil, helper.ErrAuthorization("announcement management is restricted")
	}
	return ac, schoolID, nil
}

func (h *AnnouncementController) findInTenant(annID, schoolID uuid.UUID) (*annModel.AnnouncementModel, error) {
	var m annModel.AnnouncementModel
	err := h.DB.Where("announcement_id = ? AND announcement_school_id = ?", annID, schoolID).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helper.ErrNotFound("announcement")
		}
		return nil, helper.ErrInternal(err)
	}
	return &m, nil
}

func ensureClassroomAlive(db *gorm.DB, classroomID, schoolID uuid.UUID) error {
	var n int64
	if err := db.Model(&classModel.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_school_id = ?", classroomID, schoolID).
		Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n == 0 {
		return helper.ErrValidation("classroom does not belong to this school")
	}
	return nil
}
