// file: internals/features/classrooms/controller/classroom_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	classDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/dto"
	classModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
	userModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/scope"
)

type ClassroomController struct {
	DB     *gorm.DB
	Policy *policy.Engine
}

func NewClassroomController(db *gorm.DB, eng *policy.Engine) *ClassroomController {
	return &ClassroomController{DB: db, Policy: eng}
}

var validateClassroom = validator.New()

// ===================== LIST =====================
// GET /api/tenants/:school_id/classrooms (members)
func (h *ClassroomController) List(c *fiber.Ctx) error {
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

	tx := h.DB.Model(&classModel.ClassroomModel{}).
		Scopes(scope.Tenant("classroom_school_id", schoolID))
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("classroom_name ILIKE ?", "%"+q+"%")
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"name":       "classroom_name",
		"created_at": "classroom_created_at",
	}, "name")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []classModel.ClassroomModel
	if err := tx.Order(order).Scopes(scope.Paginate(p)).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*classDTO.ClassroomResponse, 0, len(rows))
	for i := range rows {
		items = append(items, classDTO.NewClassroomResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// ===================== DETAIL =====================
// GET /api/tenants/:school_id/classrooms/:id
func (h *ClassroomController) GetByID(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("classroom")
	}

	dec, err := h.Policy.CanAccess(c.UserContext(), ac.Principal(), schoolID,
		&policy.Relation{ClassroomID: &classID})
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrNotFound("classroom")
	}

	m, err := h.findInTenant(classID, schoolID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "classroom", classDTO.NewClassroomResponse(m))
}

// ===================== CREATE =====================
// POST /api/tenants/:school_id/classrooms (admin)
func (h *ClassroomController) Create(c *fiber.Ctx) error {
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
		return helper.ErrAuthorization("classroom management is restricted")
	}

	var req classDTO.CreateClassroomRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateClassroom.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	if req.ClassroomLeadTeacherID != nil {
		if err := h.ensureTeacherInSchool(*req.ClassroomLeadTeacherID, schoolID); err != nil {
			return err
		}
	}

	m := req.ToModel(schoolID)
	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "classroom created", classDTO.NewClassroomResponse(m))
}

// ===================== UPDATE =====================
// PUT /api/tenants/:school_id/classrooms/:id (admin)
func (h *ClassroomController) Update(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("classroom")
	}

	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrAuthorization("classroom management is restricted")
	}

	m, err := h.findInTenant(classID, schoolID)
	if err != nil {
		return err
	}

	var req classDTO.UpdateClassroomRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateClassroom.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	updates := map[string]interface{}{}
	if req.ClassroomName != nil {
		updates["classroom_name"] = strings.TrimSpace(*req.ClassroomName)
	}
	if req.ClassroomCapacity != nil {
		updates["classroom_capacity"] = *req.ClassroomCapacity
	}
	if req.ClassroomLeadTeacherID != nil {
		if *req.ClassroomLeadTeacherID == uuid.Nil {
			updates["classroom_lead_teacher_id"] = nil
		} else {
			if err := h.ensureTeacherInSchool(*req.ClassroomLeadTeacherID, schoolID); err != nil {
				return err
			}
			updates["classroom_lead_teacher_id"] = *req.ClassroomLeadTeacherID
		}
	}
	if len(updates) == 0 {
		return helper.JsonUpdated(c, "no changes", classDTO.NewClassroomResponse(m))
	}
	updates["classroom_updated_by"] = ac.UserID

	if err := h.DB.Model(&classModel.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_school_id = ?", m.ClassroomID, schoolID).
		Updates(updates).Error; err != nil {
		return helper.ErrInternal(err)
	}

	after, err := h.findInTenant(classID, schoolID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "classroom updated", classDTO.NewClassroomResponse(after))
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id/classrooms/:id (admin)
//
// Refused while any alive child still references the classroom; after a
// successful delete the reference column on soft-deleted children is
// cleared so a later restore does not resurrect a dangling id.
func (h *ClassroomController) Delete(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("classroom")
	}

	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, nil)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrAuthorization("classroom management is restricted")
	}

	m, err := h.findInTenant(classID, schoolID)
	if err != nil {
		return err
	}

	if err := removeClassroom(h.DB, m, ac.UserID); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "classroom removed", fiber.Map{"classroom_id": m.ClassroomID})
}

/* ===================== internals ===================== */

// removeClassroom refuses removal while any alive child is still assigned,
// then soft-deletes the classroom and clears the classroom reference left
// on soft-deleted children in the same transaction.
func removeClassroom(db *gorm.DB, m *classModel.ClassroomModel, actor uuid.UUID) error {
	var aliveChildren int64
	if err := db.Model(&childModel.ChildModel{}).
		Where("child_classroom_id = ?", m.ClassroomID).
		Count(&aliveChildren).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if aliveChildren > 0 {
		return helper.ErrInvariant("classroom still has registered children")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&childModel.ChildModel{}).
			Where("child_classroom_id = ?", m.ClassroomID).
			UpdateColumn("child_classroom_id", nil).Error; err != nil {
			return err
		}
		return lifecycle.SoftDelete(tx, m, actor)
	})
	if err != nil {
		return helper.ErrInternal(err)
	}
	return nil
}

func (h *ClassroomController) findInTenant(classID, schoolID uuid.UUID) (*classModel.ClassroomModel, error) {
	var m classModel.ClassroomModel
	if err := h.DB.Where("classroom_id = ? AND classroom_school_id = ?", classID, schoolID).
		First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helper.ErrNotFound("classroom")
		}
		return nil, helper.ErrInternal(err)
	}
	return &m, nil
}

// ensureTeacherInSchool verifies the lead candidate is an active teacher
// of this school.
func (h *ClassroomController) ensureTeacherInSchool(teacherID, schoolID uuid.UUID) error {
	var u userModel.UserModel
	if err := h.DB.Where("user_id = ? AND user_school_id = ? AND user_is_active = ?", teacherID, schoolID, true).
		First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrValidation("lead teacher not found in this school")
		}
		return helper.ErrInternal(err)
	}
	if !u.HasRole(constants.RoleTeacher) {
		return helper.ErrValidation("lead teacher must hold the teacher role")
	}
	return nil
}
