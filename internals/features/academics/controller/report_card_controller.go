// file: internals/features/academics/controller/report_card_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	academicDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/academics/dto"
	academicModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/academics/model"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/storage"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/scope"
)

var validateAcademic = validator.New()

// ReportCardController handles the per-child document record. Writes are
// open to admins and to teachers connected to the child; parents read
// their own children's cards only.
type ReportCardController struct {
	DB     *gorm.DB
	Policy *policy.Engine
	Blobs  storage.BlobStore
}

func NewReportCardController(db *gorm.DB, eng *policy.Engine, blobs storage.BlobStore) *ReportCardController {
	return &ReportCardController{DB: db, Policy: eng, Blobs: blobs}
}

// ===================== LIST =====================
// GET /api/tenants/:school_id/report-cards?child_id=&school_year=&term=
func (h *ReportCardController) List(c *fiber.Ctx) error {
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

	tx := h.DB.Model(&academicModel.ReportCardModel{}).
		Scopes(scope.Tenant("report_card_school_id", schoolID))

	admin := ac.IsSuperAdmin() || ac.HasRole(constants.RoleAdmin)
	if !admin {
		visible, err := scope.LinkedChildIDs(h.DB, ac.UserID,
			ac.HasRole(constants.RoleTeacher), ac.HasRole(constants.RoleParent))
		if err != nil {
			return helper.ErrInternal(err)
		}
		tx = tx.Scopes(scope.ChildIn("report_card_child_id", visible))
	}

	if raw := strings.TrimSpace(c.Query("child_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("child_id is not a valid uuid")
		}
		tx = tx.Where("report_card_child_id = ?", id)
	}
	if year := strings.TrimSpace(c.Query("school_year")); year != "" {
		tx = tx.Where("report_card_school_year = ?", year)
	}
	if term := strings.TrimSpace(c.Query("term")); term != "" {
		tx = tx.Where("report_card_term = ?", term)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at":  "report_card_created_at",
		"term":        "report_card_term",
		"school_year": "report_card_school_year",
	}, "created_at")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []academicModel.ReportCardModel
	if err := tx.Order(order).Scopes(scope.Paginate(p)).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*academicDTO.ReportCardResponse, 0, len(rows))
	for i := range rows {
		items = append(items, academicDTO.NewReportCardResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// ===================== CREATE =====================
// POST /api/tenants/:school_id/report-cards (multipart; admin or linked teacher)
func (h *ReportCardController) Create(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}

	var form academicDTO.CreateReportCardForm
	if err := c.BodyParser(&form); err != nil {
		return helper.ErrValidation("malformed form")
	}
	if err := validateAcademic.Struct(form); err != nil {
		return helper.ValidationFieldError(c, err)
	}
	childID, err := uuid.Parse(form.ChildID)
	if err != nil {
		return helper.ErrValidation("child_id is not a valid uuid")
	}
	if err := ensureChildAlive(h.DB, childID, schoolID); err != nil {
		return err
	}

	rel := &policy.Relation{
		ChildID:     &childID,
		ManageRoles: []constants.Role{constants.RoleTeacher},
	}
	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, rel)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrNotFound("child")
	}

	fh, err := c.FormFile("document")
	if err != nil {
		return helper.ErrValidation("document file is required")
	}
	if err := helper.CheckUpload(fh, helper.DocumentExtensions, helper.MaxReportCardSize); err != nil {
		return err
	}

	if err := ensureCardSlotFree(h.DB, childID, form.Term, form.SchoolYear, uuid.Nil); err != nil {
		return err
	}

	src, err := fh.Open()
	if err != nil {
		return helper.ErrInternal(err)
	}
	defer src.Close()

	location, err := h.Blobs.Save(c.UserContext(), "report_cards/"+schoolID.String(), fh.Filename, src)
	if err != nil {
		return helper.ErrInternal(err)
	}

	m := &academicModel.ReportCardModel{
		ReportCardSchoolID:     schoolID,
		ReportCardChildID:      childID,
		ReportCardTerm:         form.Term,
		ReportCardSchoolYear:   form.SchoolYear,
		ReportCardFileName:     fh.Filename,
		ReportCardFileLocation: location,
	}
	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "report card uploaded", academicDTO.NewReportCardResponse(m))
}

// ===================== UPDATE =====================
// PATCH /api/tenants/:school_id/report-cards/:id (multipart; admin or linked teacher)
//
// Term and school-year are optional form values; a "document" file part, if
// present, replaces the stored blob reference.
func (h *ReportCardController) Update(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	cardID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("report card")
	}

	var m academicModel.ReportCardModel
	if err := h.DB.Where("report_card_id = ? AND report_card_school_id = ?", cardID, schoolID).
		First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrNotFound("report card")
		}
		return helper.ErrInternal(err)
	}

	rel := &policy.Relation{
		ChildID:     &m.ReportCardChildID,
		ManageRoles: []constants.Role{constants.RoleTeacher},
	}
	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, rel)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrNotFound("report card")
	}

	var form academicDTO.UpdateReportCardForm
	if err := c.BodyParser(&form); err != nil {
		return helper.ErrValidation("malformed form")
	}
	if err := validateAcademic.Struct(form); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	term := m.ReportCardTerm
	if v := strings.TrimSpace(form.Term); v != "" {
		term = v
	}
	year := m.ReportCardSchoolYear
	if v := strings.TrimSpace(form.SchoolYear); v != "" {
		year = v
	}
	if term != m.ReportCardTerm || year != m.ReportCardSchoolYear {
		if err := ensureCardSlotFree(h.DB, m.ReportCardChildID, term, year, m.ReportCardID); err != nil {
			return err
		}
	}
	m.ReportCardTerm = term
	m.ReportCardSchoolYear = year

	if fh, err := c.FormFile("document"); err == nil {
		if err := helper.CheckUpload(fh, helper.DocumentExtensions, helper.MaxReportCardSize); err != nil {
			return err
		}
		src, err := fh.Open()
		if err != nil {
			return helper.ErrInternal(err)
		}
		defer src.Close()
		location, err := h.Blobs.Save(c.UserContext(), "report_cards/"+schoolID.String(), fh.Filename, src)
		if err != nil {
			return helper.ErrInternal(err)
		}
		m.ReportCardFileName = fh.Filename
		m.ReportCardFileLocation = location
	}

	lifecycle.StampUpdate(&m.Audit, ac.UserID)
	if err := h.DB.Save(&m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonUpdated(c, "report card updated", academicDTO.NewReportCardResponse(&m))
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id/report-cards/:id (admin or linked teacher, soft)
//
// The blob stays where it is: a soft-deleted card can be restored by an
// operator without re-upload.
func (h *ReportCardController) Delete(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}
	cardID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("report card")
	}

	var m academicModel.ReportCardModel
	if err := h.DB.Where("report_card_id = ? AND report_card_school_id = ?", cardID, schoolID).
		First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.ErrNotFound("report card")
		}
		return helper.ErrInternal(err)
	}

	rel := &policy.Relation{
		ChildID:     &m.ReportCardChildID,
		ManageRoles: []constants.Role{constants.RoleTeacher},
	}
	dec, err := h.Policy.CanManage(c.UserContext(), ac.Principal(), schoolID, rel)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrNotFound("report card")
	}

	if err := lifecycle.SoftDelete(h.DB, &m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "report card removed", fiber.Map{"report_card_id": cardID})
}

/* ===================== internals ===================== */

// ensureCardSlotFree enforces one alive card per (child, term, school
// year). exceptID skips the row being updated.
func ensureCardSlotFree(db *gorm.DB, childID uuid.UUID, term, schoolYear string, exceptID uuid.UUID) error {
	tx := db.Model(&academicModel.ReportCardModel{}).
		Where("report_card_child_id = ? AND report_card_term = ? AND report_card_school_year = ?",
			childID, term, schoolYear)
	if exceptID != uuid.Nil {
		tx = tx.Where("report_card_id <> ?", exceptID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n > 0 {
		return helper.ErrConflict("a report card already exists for this child, term and school year")
	}
	return nil
}

func ensureChildAlive(db *gorm.DB, childID, schoolID uuid.UUID) error {
	var n int64
	if err := db.Model(&childModel.ChildModel{}).
		Where("child_id = ? AND child_school_id = ?", childID, schoolID).
		Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n == 0 {
		return helper.ErrNotFound("child")
	}
	return nil
}
