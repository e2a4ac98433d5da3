package handlers

import (
	"errors"

	"campgo/internal/apperr"
	applog "campgo/internal/log"
	"campgo/internal/telemetry"
	"campgo/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// envelope is the shape of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *fiber.Ctx, message string, data any) error {
	return c.JSON(envelope{Success: true, Message: message, Data: data})
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Success: true, Message: message, Data: data})
}

// bind parses a JSON body into dst and runs its validator tags.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("malformed request body")
	}
	return validate.Struct(dst)
}

// param returns a validated path parameter.
func param(c *fiber.Ctx, name string) (string, error) {
	id, ok := validate.ID(c.Params(name))
	if !ok {
		return "", apperr.Validation("invalid %s", name)
	}
	return id, nil
}

// ErrorHandler renders errors returned by handlers as the JSON envelope.
// Internal errors are logged and reported, and their detail is only shown
// outside production.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(envelope{Message: fe.Message})
		}

		kind := apperr.KindOf(err)
		msg := apperr.Message(err)
		switch kind {
		case apperr.KindInternal:
			applog.Error(c, "server.error", err, nil)
			telemetry.Capture(err, map[string]string{
				"path":   c.Route().Path,
				"method": c.Method(),
			})
			if !production {
				msg = msg + ": " + err.Error()
			}
		case apperr.KindUnauthorized, apperr.KindForbidden:
			applog.Security(c, "access.denied", map[string]any{"reason": msg})
		case apperr.KindValidation:
			applog.Security(c, "validation.fail", map[string]any{"reason": msg})
		}
		return c.Status(kind.Status()).JSON(envelope{Message: msg})
	}
}

// render serves a server-side page with the signed-in principal injected.
func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if id, _ := c.Locals(localUserID).(string); id != "" {
		data["UserID"] = id
		data["Role"] = c.Locals(localRole)
	}
	return c.Render(tmpl, data)
}
