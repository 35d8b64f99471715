package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type body struct {
	Error  string   `json:"error"`
	Code   Code     `json:"code,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// Handler renders errors returned by route handlers. It is installed as the
// fiber ErrorHandler.
func Handler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	resp := body{Error: err.Error()}

	var appErr *Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status = appErr.Status
		resp = body{Error: appErr.Message, Code: appErr.Code, Fields: appErr.Fields}
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		resp = body{Error: fiberErr.Message}
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Interface("request_id", c.Locals("requestid")).
			Msg("request failed")
	}
	return c.Status(status).JSON(resp)
}
