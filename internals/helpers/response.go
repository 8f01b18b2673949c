// file: internals/helpers/response.go
package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

/* ===============================
   JSON envelope
=================================*/

func JsonOK(c *fiber.Ctx, message string, data interface{}) error {
	return jsonSuccess(c, fiber.StatusOK, message, data)
}

func JsonCreated(c *fiber.Ctx, message string, data interface{}) error {
	return jsonSuccess(c, fiber.StatusCreated, message, data)
}

func JsonUpdated(c *fiber.Ctx, message string, data interface{}) error {
	return jsonSuccess(c, fiber.StatusOK, message, data)
}

func JsonDeleted(c *fiber.Ctx, message string, data interface{}) error {
	return jsonSuccess(c, fiber.StatusOK, message, data)
}

func jsonSuccess(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// JsonList pairs a page of items with out-of-band pagination meta.
func JsonList(c *fiber.Ctx, items interface{}, meta Meta) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"code":   fiber.StatusOK,
		"status": "success",
		"data":   items,
		"meta":   meta,
	})
}

func JsonError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

/* ===============================
   validator.v10 field errors
=================================*/

func ValidationFieldError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return JsonError(c, fiber.StatusBadRequest, "invalid input")
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    fiber.StatusBadRequest,
		"status":  "error",
		"message": "validation failed",
		"errors":  fields,
	})
}
