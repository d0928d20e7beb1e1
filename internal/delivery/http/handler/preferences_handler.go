package handler

import (
	"errors"

	"jobfinder/internal/delivery/http/dto"
	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/pkg/response"
	"jobfinder/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type PreferencesHandler struct {
	uc usecase.PreferencesUsecase
}

func NewPreferencesHandler(uc usecase.PreferencesUsecase) *PreferencesHandler {
	return &PreferencesHandler{uc: uc}
}

func (h *PreferencesHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	saved := r.Group("/saved")
	saved.Get("/", h.ListSaved)
	saved.Put("/:id", h.AddSaved)
	saved.Delete("/:id", h.RemoveSaved)
	saved.Post("/:id/toggle", h.ToggleSaved)

	r.Get("/theme", h.GetTheme)
	r.Put("/theme", h.SetTheme)
}

func (h *PreferencesHandler) ListSaved(c fiber.Ctx) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	jobs, err := h.uc.SavedJobs(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SavedResponse{IDs: ids, Jobs: dto.FromJobs(jobs)})
}

func (h *PreferencesHandler) AddSaved(c fiber.Ctx) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	ids, err := h.uc.AddSaved(c.Context(), id, c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	saved := true
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SavedResponse{IDs: ids, Saved: &saved})
}

func (h *PreferencesHandler) RemoveSaved(c fiber.Ctx) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	ids, err := h.uc.RemoveSaved(c.Context(), id, c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	saved := false
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SavedResponse{IDs: ids, Saved: &saved})
}

func (h *PreferencesHandler) ToggleSaved(c fiber.Ctx) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	ids, saved, err := h.uc.ToggleSaved(c.Context(), id, c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SavedResponse{IDs: ids, Saved: &saved})
}

func (h *PreferencesHandler) GetTheme(c fiber.Ctx) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	t, err := h.uc.Theme(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ThemeResponse{Theme: string(t)})
}

func (h *PreferencesHandler) SetTheme(c fiber.Ctx) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	var req dto.ThemeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("", err)
	}
	t, err := h.uc.SetTheme(c.Context(), id, req.Theme)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return middleware.BadRequest("theme must be light or dark", err)
		}
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ThemeResponse{Theme: string(t)})
}
