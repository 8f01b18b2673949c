// file: internals/features/enrollment/controller/enrollment_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	enrollDTO "github.com/DevMick/Web-API-Froebel-sub000/internals/features/enrollment/dto"
	saga "github.com/DevMick/Web-API-Froebel-sub000/internals/features/enrollment/service"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

var validateEnrollment = validator.New()

type EnrollmentController struct {
	Policy *policy.Engine
	Saga   *saga.EnrollmentSaga
}

func NewEnrollmentController(eng *policy.Engine, s *saga.EnrollmentSaga) *EnrollmentController {
	return &EnrollmentController{Policy: eng, Saga: s}
}

// POST /api/tenants/:school_id/enrollments (admin)
//
// One request creates the guardian account, all the children, and the
// links between them, or nothing at all.
func (h *EnrollmentController) Enroll(c *fiber.Ctx) error {
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
		return helper.ErrAuthorization("enrollment is restricted")
	}

	var req enrollDTO.EnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrValidation("malformed payload")
	}
	if err := validateEnrollment.Struct(req); err != nil {
		return helper.ValidationFieldError(c, err)
	}

	res, err := h.Saga.Run(c.UserContext(), ac.UserID, schoolID, req.ToInput())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "enrollment completed", enrollDTO.NewEnrollmentResponse(res))
}
