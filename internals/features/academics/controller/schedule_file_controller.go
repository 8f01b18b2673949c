// file: internals/features/academics/controller/schedule_file_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	academicDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/academics/dto"
	academicModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/academics/model"
	classModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/storage"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/scope"
)

// ScheduleFileController: admin-maintained documents targeted at one
// classroom. Teachers and parents read the ones for classrooms they are
// connected to.
type ScheduleFileController struct {
	DB     *gorm.DB
	Policy *policy.Engine
	Blobs  storage.BlobStore
}

func NewScheduleFileController(db *gorm.DB, eng *policy.Engine, blobs storage.BlobStore) *ScheduleFileController {
	return &ScheduleFileController{DB: db, Policy: eng, Blobs: blobs}
}

// ===================== LIST =====================
// GET /api/tenants/:school_id/schedule-files?classroom_id=&school_year=
func (h *ScheduleFileController) List(c *fiber.Ctx) error {
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

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	tx := h.DB.Model(&academicModel.ScheduleFileModel{}).
		Scopes(scope.Tenant("schedule_file_school_id", schoolID))

	admin := ac.IsSuperAdmin() || ac.HasRole(constants.RoleAdmin)
	if !admin {
		rooms, err := scope.LinkedClassroomIDs(h.DB, ac.UserID,
			ac.HasRole(constants.RoleTeacher), ac.HasRole(constants.RoleParent))
		if err != nil {
			return helper.ErrInternal(err)
		}
		if len(rooms) == 0 {
			tx = tx.Where("1 = 0")
		} else {
			tx = tx.Where("schedule_file_classroom_id IN ?", rooms)
		}
	}

	if raw := strings.TrimSpace(c.Query("classroom_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("classroom_id is not a valid uuid")
		}
		tx = tx.Where("schedule_file_classroom_id = ?", id)
	}
	if year := strings.TrimSpace(c.Query("school_year")); year != "" {
		tx = tx.Where("schedule_file_school_year = ?", year)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at":  "schedule_file_created_at",
		"school_year": "schedule_file_school_year",
		"file_name":   "schedule_file_file_name",
	}, "created_at")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []academicModel.ScheduleFileModel
	if err := tx.Order(order).Scopes(scope.Paginate(p)).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*academicDTO.ScheduleFileResponse, 0, len(rows))
	for i := range rows {
		items = append(items, academicDTO.NewScheduleFileResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// ===================== CREATE =====================
// POST /api/tenants/:school_id/schedule-files (multipart; admin)
func (h *ScheduleFileController) Create(c *fiber.Ctx) error {
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
		return helper.ErrAuthorization("schedule file management is restricted")
	}

	var form academicDTO.CreateScheduleFileForm
	if err := c.BodyParser(&form); err != nil {
		return helper.ErrValidation("malformed form")
	}
	if err := validateAcademic.Struct(form); err != nil {
		return helper.ValidationFieldError(c, err)
	}
	classroomID, err := uuid.Parse(form.ClassroomID)
	if err != nil {
		return helper.ErrValidation("classroom_id is not a valid uuid")
	}

	var alive int64
	if err := h.DB.Model(&classModel.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_school_id = ?", classroomID, schoolID).
		Count(&alive).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if alive == 0 {
		return helper.ErrValidation("classroom does not belong to this school")
	}

	fh, err := c.FormFile("document")
	if err != nil {
		return helper.ErrValidation("document file is required")
	}
	if err := helper.CheckUpload(fh, helper.DocumentExtensions, helper.MaxScheduleFileSize); err != nil {
		return err
	}

	// one alive file per (classroom, school-year, filename)
	var n int64
	if err := h.DB.Model(&academicModel.ScheduleFileModel{}).
		Where("schedule_file_classroom_id = ? AND schedule_file_school_year = ? AND schedule_file_file_name = ?",
			classroomID, form.SchoolYear, fh.Filename).
		Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n > 0 {
		return helper.ErrConflict("this schedule file already exists for the classroom and school year")
	}

	src, err := fh.Open()
	if err != nil {
		return helper.ErrInternal(err)
	}
	defer src.Close()

	location, err := h.Blobs.Save(c.UserContext(), "schedule_files/"+schoolID.String(), fh.Filename, src)
	if err != nil {
		return helper.ErrInternal(err)
	}

	m := &academicModel.ScheduleFileModel{
		ScheduleFileSchoolID:     schoolID,
		ScheduleFileClassroomID:  classroomID,
		ScheduleFileSchoolYear:   form.SchoolYear,
		ScheduleFileFileName:     fh.Filename,
		ScheduleFileFileLocation: location,
	}
	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "schedule file uploaded", academicDTO.NewScheduleFileResponse(m))
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id/schedule-files/:id (admin, soft)
func (h *ScheduleFileController) Delete(c *fiber.Ctx) error {
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
		return helper.ErrAuthorization("schedule file management is restricted")
	}

	fileID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("schedule file")
	}

	var m academicModel.ScheduleFileModel
	if err := h.DB.Where("schedule_file_id = ? AND schedule_file_school_id = ?", fileID, schoolID).
		First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrNotFound("schedule file")
		}
		return helper.ErrInternal(err)
	}

	if err := lifecycle.SoftDelete(h.DB, &m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "schedule file removed", fiber.Map{"schedule_file_id": fileID})
}
