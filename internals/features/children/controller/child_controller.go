// file: internals/features/children/controller/child_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	childDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/dto"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	classModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/scope"
)

type ChildController struct {
	DB     *gorm.DB
	Policy *policy.Engine
}

func NewChildController(db *gorm.DB, eng *policy.Engine) *ChildController {
	return &ChildController{DB: db, Policy: eng}
}

var validateChild = validator.New()

// ===================== LIST =====================
// GET /api/tenants/:school_id/children
//
// Admins see the whole school; teachers and parents only the children
// their alive links (or classroom lead reference) reach.
func (h *ChildController) List(c *fiber.Ctx) error {
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

	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)

	tx := h.DB.Model(&childModel.ChildModel{}).
		Scopes(scope.Tenant("child_school_id", schoolID))

	// role narrowing, strongest grant wins
	admin := ac.IsSuperAdmin() || ac.HasRole(constants.RoleAdmin)
	if !admin {
		visible, err := scope.LinkedChildIDs(h.DB, ac.UserID,
			ac.HasRole(constants.RoleTeacher), ac.HasRole(constants.RoleParent))
		if err != nil {
			return helper.ErrInternal(err)
		}
		tx = tx.Scopes(scope.ChildIn("child_id", visible))
	}

	if st := strings.TrimSpace(c.Query("status")); st != "" {
		parsed, err := constants.ParseChildStatus(st)
		if err != nil {
			return helper.ErrValidation(err.Error())
		}
		tx = tx.Where("child_status = ?", parsed)
	}
	if raw := strings.TrimSpace(c.Query("classroom_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("classroom_id is not a valid uuid")
		}
		tx = tx.Where("child_classroom_id = ?", id)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"name":       "child_last_name",
		"created_at": "child_created_at",
		"status":     "child_status",
	}, "name")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []childModel.ChildModel
	if err := tx.Order(order).Scopes(scope.Paginate(p)).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*childDTO.ChildResponse, 0, len(rows))
	for i := range rows {
		items = append(items, childDTO.NewChildResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// ===================== DETAIL =====================
// GET /api/tenants/:school_id/children/:id
func (h *ChildController) GetByID(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	childID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("child")
	}

	dec, err := h.Policy.CanAccess(c.UserContext(), ac.Principal(), schoolID,
		&policy.Relation{ChildID: &childID})
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrNotFound("child")
	}

	m, err := h.findInTenant(childID, schoolID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "child", childDTO.NewChildResponse(m))
}

// ===================== CREATE =====================
// POST /api/tenants/:school_id/children (admin)
func (h *ChildController) Create(c *fiber.Ctx) error {
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
		return helper.ErrAuthorization("child records are restricted")
	}

	var req childDTO.CreateChildRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateChild.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	if req.ChildClassroomID != nil {
		if err := ensureClassroomInSchool(h.DB, *req.ChildClassroomID, schoolID); err != nil {
			return err
		}
	}

	year, err := currentSchoolYear(h.DB, schoolID)
	if err != nil {
		return err
	}

	m := req.ToModel(schoolID, year)
	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "child registered", childDTO.NewChildResponse(m))
}

// ===================== UPDATE =====================
// PUT /api/tenants/:school_id/children/:id (admin)
func (h *ChildController) Update(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	childID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("child")
	}

	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrAuthorization("child records are restricted")
	}

	m, err := h.findInTenant(childID, schoolID)
	if err != nil {
		return err
	}

	var req childDTO.UpdateChildRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateChild.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	updates := map[string]interface{}{}
	if req.ChildFirstName != nil {
		updates["child_first_name"] = strings.TrimSpace(*req.ChildFirstName)
	}
	if req.ChildLastName != nil {
		updates["child_last_name"] = strings.TrimSpace(*req.ChildLastName)
	}
	if req.ChildStatus != nil {
		st, err := constants.ParseChildStatus(*req.ChildStatus)
		if err != nil {
			return helper.ErrValidation(err.Error())
		}
		updates["child_status"] = st
	}
	if req.ChildClassroomID != nil {
		if *req.ChildClassroomID == uuid.Nil {
			updates["child_classroom_id"] = nil
		} else {
			if err := ensureClassroomInSchool(h.DB, *req.ChildClassroomID, schoolID); err != nil {
				return err
			}
			updates["child_classroom_id"] = *req.ChildClassroomID
		}
	}
	if len(updates) == 0 {
		return helper.JsonUpdated(c, "no changes", childDTO.NewChildResponse(m))
	}
	updates["child_updated_by"] = ac.UserID

	if err := h.DB.Model(&childModel.ChildModel{}).
		Where("child_id = ? AND child_school_id = ?", m.ChildID, schoolID).
		Updates(updates).Error; err != nil {
		return helper.ErrInternal(err)
	}

	after, err := h.findInTenant(childID, schoolID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "child updated", childDTO.NewChildResponse(after))
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id/children/:id (admin, soft)
func (h *ChildController) Delete(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	childID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("child")
	}

	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrAuthorization("child records are restricted")
	}

	m, err := h.findInTenant(childID, schoolID)
	if err != nil {
		return err
	}

	if err := lifecycle.SoftDelete(h.DB, m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "child removed", fiber.Map{"child_id": m.ChildID})
}

/* ===================== internals ===================== */

func (h *ChildController) findInTenant(childID, schoolID uuid.UUID) (*childModel.ChildModel, error) {
	var m childModel.ChildModel
	if err := h.DB.Where("child_id = ? AND child_school_id = ?", childID, schoolID).
		First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helper.ErrNotFound("child")
		}
		return nil, helper.ErrInternal(err)
	}
	return &m, nil
}

func ensureClassroomInSchool(db *gorm.DB, classroomID, schoolID uuid.UUID) error {
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

// currentSchoolYear reads the tenant's year label stamped onto new rows.
func currentSchoolYear(db *gorm.DB, schoolID uuid.UUID) (string, error) {
	var year string
	err := db.Table("schools").
		Where("school_id = ? AND school_deleted_at IS NULL", schoolID).
		Pluck("school_current_year", &year).Error
	if err != nil {
		return "", helper.ErrInternal(err)
	}
	if year == "" {
		return "", helper.ErrNotFound("school")
	}
	return year, nil
}
