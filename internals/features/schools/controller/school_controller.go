// file: internals/features/schools/controller/school_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	schoolDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/schools/dto"
	schoolModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/schools/model"
	userModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

type SchoolController struct {
	DB     *gorm.DB
	Policy *policy.Engine
}

func NewSchoolController(db *gorm.DB, eng *policy.Engine) *SchoolController {
	return &SchoolController{DB: db, Policy: eng}
}

var validateSchool = validator.New()

// ===================== LIST =====================
// GET /api/schools (super admin)
func (h *SchoolController) List(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	if !ac.IsSuperAdmin() {
		return helper.ErrAuthorization("school directory is restricted")
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	tx := h.DB.Model(&schoolModel.SchoolModel{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("(school_name ILIKE ? OR school_code ILIKE ?)", "%"+q+"%", "%"+q+"%")
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "school_created_at",
		"name":       "school_name",
		"code":       "school_code",
	}, "created_at")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []schoolModel.SchoolModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*schoolDTO.SchoolResponse, 0, len(rows))
	for i := range rows {
		items = append(items, schoolDTO.NewSchoolResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// ===================== DETAIL =====================
// GET /api/tenants/:school_id (members of the school)
func (h *SchoolController) GetByID(c *fiber.Ctx) error {
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

	var m schoolModel.SchoolModel
	if err := h.DB.Where("school_id = ?", schoolID).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrNotFound("school")
		}
		return helper.ErrInternal(err)
	}
	return helper.JsonOK(c, "school", schoolDTO.NewSchoolResponse(&m))
}

// ===================== CREATE =====================
// POST /api/schools (super admin)
func (h *SchoolController) Create(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	if !ac.IsSuperAdmin() {
		return helper.ErrAuthorization("only a super admin may register schools")
	}

	var req schoolDTO.CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateSchool.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	m := req.ToModel()

	// code and contact email are unique among alive schools
	var n int64
	if err := h.DB.Model(&schoolModel.SchoolModel{}).
		Where("school_code = ? OR school_contact_email = ?", m.SchoolCode, m.SchoolContactEmail).
		Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n > 0 {
		return helper.ErrConflict("a school with this code or contact email already exists")
	}

	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.ErrConflict("a school with this code or contact email already exists")
		}
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "school registered", schoolDTO.NewSchoolResponse(m))
}

// ===================== UPDATE =====================
// PUT /api/tenants/:school_id (admin of the school, or super admin)
func (h *SchoolController) Update(c *fiber.Ctx) error {
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
		return helper.ErrAuthorization("school settings are restricted")
	}

	var m schoolModel.SchoolModel
	if err := h.DB.Where("school_id = ?", schoolID).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrNotFound("school")
		}
		return helper.ErrInternal(err)
	}

	var req schoolDTO.UpdateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateSchool.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	if req.SchoolContactEmail != nil {
		email := strings.ToLower(strings.TrimSpace(*req.SchoolContactEmail))
		var n int64
		if err := h.DB.Model(&schoolModel.SchoolModel{}).
			Where("school_contact_email = ? AND school_id <> ?", email, schoolID).
			Count(&n).Error; err != nil {
			return helper.ErrInternal(err)
		}
		if n > 0 {
			return helper.ErrConflict("contact email already in use by another school")
		}
	}

	req.ApplyToModel(&m)
	lifecycle.StampUpdate(&m.Audit, ac.UserID)
	if err := h.DB.Save(&m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonUpdated(c, "school updated", schoolDTO.NewSchoolResponse(&m))
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id (super admin)
//
// A tenant with any principal or alive child cannot be removed.
func (h *SchoolController) Delete(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	if !ac.IsSuperAdmin() {
		return helper.ErrAuthorization("only a super admin may remove schools")
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}

	var m schoolModel.SchoolModel
	if err := h.DB.Where("school_id = ?", schoolID).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrNotFound("school")
		}
		return helper.ErrInternal(err)
	}

	var principals int64
	if err := h.DB.Model(&userModel.UserModel{}).
		Where("user_school_id = ?", schoolID).
		Count(&principals).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if principals > 0 {
		return helper.ErrInvariant("school still has principals; remove them first")
	}

	var children int64
	if err := h.DB.Model(&childModel.ChildModel{}).
		Where("child_school_id = ?", schoolID).
		Count(&children).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if children > 0 {
		return helper.ErrInvariant("school still has registered children")
	}

	if err := lifecycle.SoftDelete(h.DB, &m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "school removed", fiber.Map{"school_id": schoolID})
}
