package handler

import (
	"errors"

	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.BadRequest("", err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NotFound("job not found", err)
	default:
		return middleware.Internal(err)
	}
}

func clientID(c fiber.Ctx) (string, error) {
	id, ok := middleware.ClientID(c)
	if !ok {
		return "", middleware.BadRequest("missing client id", nil)
	}
	return id, nil
}
