// file: internals/features/announcements/controller/activity_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	annDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/announcements/dto"
	annModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/announcements/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/scope"
)

// ActivityController follows the announcement feed rules: general rows
// for everyone in the school, targeted rows for connected classrooms.
type ActivityController struct {
	DB     *gorm.DB
	Policy *policy.Engine
}

func NewActivityController(db *gorm.DB, eng *policy.Engine) *ActivityController {
	return &ActivityController{DB: db, Policy: eng}
}

// GET /api/tenants/:school_id/activities
func (h *ActivityController) List(c *fiber.Ctx) error {
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

	tx := h.DB.Model(&annModel.ActivityModel{}).
		Scopes(scope.Tenant("activity_school_id", schoolID))

	admin := ac.IsSuperAdmin() || ac.HasRole(constants.RoleAdmin)
	if !admin {
		rooms, err := scope.LinkedClassroomIDs(h.DB, ac.UserID,
			ac.HasRole(constants.RoleTeacher), ac.HasRole(constants.RoleParent))
		if err != nil {
			return helper.ErrInternal(err)
		}
		tx = tx.Scopes(scope.TargetedOrGeneral("activity_classroom_id", rooms))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"date":       "activity_date",
		"title":      "activity_title",
		"created_at": "activity_created_at",
	}, "date")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []annModel.ActivityModel
	if err := tx.Order(order).Scopes(scope.Paginate(p)).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*annDTO.ActivityResponse, 0, len(rows))
	for i := range rows {
		items = append(items, annDTO.NewActivityResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// POST /api/tenants/:school_id/activities (admin)
func (h *ActivityController) Create(c *fiber.Ctx) error {
	ac, schoolID, err := h.manage(c)
	if err != nil {
		return err
	}

	var req annDTO.CreateActivityRequest
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
	return helper.JsonCreated(c, "activity published", annDTO.NewActivityResponse(m))
}

// PUT /api/tenants/:school_id/activities/:id (admin)
func (h *ActivityController) Update(c *fiber.Ctx) error {
	ac, schoolID, err := h.manage(c)
	if err != nil {
		return err
	}
	actID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("activity")
	}
	m, err := h.findInTenant(actID, schoolID)
	if err != nil {
		return err
	}

	var req annDTO.UpdateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateAnnouncement.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	patch := map[string]interface{}{}
	if req.Title != nil {
		patch["activity_title"] = *req.Title
	}
	if req.Description != nil {
		patch["activity_description"] = *req.Description
	}
	if req.Location != nil {
		patch["activity_location"] = *req.Location
	}
	if req.Date != nil {
		patch["activity_date"] = *req.Date
	}
	if len(patch) == 0 {
		return helper.ErrValidation("nothing to update")
	}
	patch["activity_updated_by"] = ac.UserID

	if err := h.DB.Model(m).Updates(patch).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonUpdated(c, "activity updated", annDTO.NewActivityResponse(m))
}

// DELETE /api/tenants/:school_id/activities/:id (admin, soft)
func (h *ActivityController) Delete(c *fiber.Ctx) error {
	ac, schoolID, err := h.manage(c)
	if err != nil {
		return err
	}
	actID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("activity")
	}
	m, err := h.findInTenant(actID, schoolID)
	if err != nil {
		return err
	}
	if err := lifecycle.SoftDelete(h.DB, m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "activity removed", fiber.Map{"activity_id": actID})
}

/* ===================== internals ===================== */

func (h *ActivityController) manage(c *fiber.Ctx) (helperAuth.AuthContext, uuid.UUID, error) {
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
		return ac, uuid.Nil, helper.ErrAuthorization("activity management is restricted")
	}
	return ac, schoolID, nil
}

func (h *ActivityController) findInTenant(actID, schoolID uuid.UUID) (*annModel.ActivityModel, error) {
	var m annModel.ActivityModel
	err := h.DB.Where("activity_id = ? AND activity_school_id = ?", actID, schoolID).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helper.ErrNotFound("activity")
		}
		return nil, helper.ErrInternal(err)
	}
	return &m, nil
}
