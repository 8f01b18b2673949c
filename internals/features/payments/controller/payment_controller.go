// file: internals/features/payments/controller/payment_controller.go
package controller

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	paymentDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/payments/dto"
	paymentModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/payments/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/lifecycle"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/scope"
)

var validatePayment = validator.New()

// PaymentController: admins manage the ledger; parents see the payments
// of their own children only. Teachers have no business here.
type PaymentController struct {
	DB     *gorm.DB
	Policy *policy.Engine
}

func NewPaymentController(db *gorm.DB, eng *policy.Engine) *PaymentController {
	return &PaymentController{DB: db, Policy: eng}
}

// ===================== LIST =====================
// GET /api/tenants/:school_id/payments?child_id=&status=
func (h *PaymentController) List(c *fiber.Ctx) error {
	ac, err := helperAuth.GetAuthContext(c)
	if err != nil {
		return err
	}
	schoolID, err := helperAuth.TenantFromParams(c)
	if err != nil {
		return err
	}

	dec, err := h.Policy.Decide(c.UserContext(), ac.Principal(), schoolID,
		[]constants.Role{constants.RoleAdmin, constants.RoleParent}, nil, nil)
	if err != nil {
		return helper.ErrInternal(err)
	}
	if !dec.Allowed() {
		return helper.ErrAuthorization("payments are restricted")
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	tx := h.DB.Model(&paymentModel.PaymentModel{}).
		Scopes(scope.Tenant("payment_school_id", schoolID))

	admin := ac.IsSuperAdmin() || ac.HasRole(constants.RoleAdmin)
	if !admin {
		visible, err := scope.ParentChildIDs(h.DB, ac.UserID)
		if err != nil {
			return helper.ErrInternal(err)
		}
		tx = tx.Scopes(scope.ChildIn("payment_child_id", visible))
	}

	if raw := strings.TrimSpace(c.Query("child_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("child_id is not a valid uuid")
		}
		tx = tx.Where("payment_child_id = ?", id)
	}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		tx = tx.Where("payment_status = ?", st)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.ErrInternal(err)
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "payment_created_at",
		"amount":     "payment_amount",
		"status":     "payment_status",
	}, "created_at")
	if err != nil {
		return helper.ErrInternal(err)
	}

	var rows []paymentModel.PaymentModel
	if err := tx.Order(order).Scopes(scope.Paginate(p)).Find(&rows).Error; err != nil {
		return helper.ErrInternal(err)
	}

	items := make([]*paymentDTO.PaymentResponse, 0, len(rows))
	for i := range rows {
		items = append(items, paymentDTO.NewPaymentResponse(&rows[i]))
	}
	return helper.JsonList(c, items, helper.BuildMeta(total, p))
}

// ===================== CREATE =====================
// POST /api/tenants/:school_id/payments (admin)
func (h *PaymentController) Create(c *fiber.Ctx) error {
	ac, schoolID, err := h.manage(c)
	if err != nil {
		return err
	}

	var req paymentDTO.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validatePayment.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	var n int64
	if err := h.DB.Model(&childModel.ChildModel{}).
		Where("child_id = ? AND child_school_id = ?", req.ChildID, schoolID).
		Count(&n).Error; err != nil {
		return helper.ErrInternal(err)
	}
	if n == 0 {
		return helper.ErrNotFound("child")
	}

	m, err := req.ToModel(schoolID)
	if err != nil {
		return helper.ErrValidation("metadata is not serializable")
	}
	lifecycle.StampCreate(&m.Audit, ac.UserID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonCreated(c, "payment recorded", paymentDTO.NewPaymentResponse(m))
}

// ===================== UPDATE =====================
// PUT /api/tenants/:school_id/payments/:id (admin)
func (h *PaymentController) Update(c *fiber.Ctx) error {
	ac, schoolID, err := h.manage(c)
	if err != nil {
		return err
	}
	payID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("payment")
	}
	m, err := h.findInTenant(payID, schoolID)
	if err != nil {
		return err
	}

	var req paymentDTO.UpdatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validatePayment.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	patch := map[string]interface{}{}
	if req.Label != nil {
		patch["payment_label"] = *req.Label
	}
	if req.Status != nil {
		patch["payment_status"] = *req.Status
	}
	if req.Metadata != nil {
		raw, err := sonic.Marshal(req.Metadata)
		if err != nil {
			return helper.ErrValidation("metadata is not serializable")
		}
		patch["payment_metadata"] = datatypes.JSON(raw)
	}
	if len(patch) == 0 {
		return helper.ErrValidation("nothing to update")
	}
	patch["payment_updated_by"] = ac.UserID

	if err := h.DB.Model(m).Updates(patch).Error; err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonUpdated(c, "payment updated", paymentDTO.NewPaymentResponse(m))
}

// ===================== DELETE =====================
// DELETE /api/tenants/:school_id/payments/:id (admin, soft)
func (h *PaymentController) Delete(c *fiber.Ctx) error {
	ac, schoolID, err := h.manage(c)
	if err != nil {
		return err
	}
	payID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.ErrNotFound("payment")
	}
	m, err := h.findInTenant(payID, schoolID)
	if err != nil {
		return err
	}
	if err := lifecycle.SoftDelete(h.DB, m, ac.UserID); err != nil {
		return helper.ErrInternal(err)
	}
	return helper.JsonDeleted(c, "payment removed", fiber.Map{"payment_id": payID})
}

/* ===================== internals ===================== */

func (h *PaymentController) manage(c *fiber.Ctx) (helperAuth.AuthContext, uuid.UUID, error) {
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
		return ac, uuid.Nil, helper.ErrAuthorization("payment management is restricted")
	}
	return ac, schoolID, nil
}

func (h *PaymentController) findInTenant(payID, schoolID uuid.UUID) (*paymentModel.PaymentModel, error) {
	var m paymentModel.PaymentModel
	err := h.DB.Where("payment_id = ? AND payment_school_id = ?", payID, schoolID).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helper.ErrNotFound("payment")
		}
		return nil, helper.ErrInternal(err)
	}
	return &m, nil
}
