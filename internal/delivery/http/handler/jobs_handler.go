package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"jobfinder/internal/delivery/http/dto"
	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/pkg/response"
	"jobfinder/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ApplyUsecase interface {
	Apply(ctx context.Context, clientID, jobID string) (usecase.ApplyReceipt, error)
}

type JobsHandler struct {
	uc    usecase.JobListUsecase
	apply ApplyUsecase
}

func NewJobsHandler(uc usecase.JobListUsecase, apply ApplyUsecase) *JobsHandler {
	return &JobsHandler{uc: uc, apply: apply}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.HandleListJobs)
	r.Get("/jobs/:id", h.HandleGetJob)
	r.Post("/jobs/:id/apply", h.HandleApply)
	r.Get("/facets", h.HandleFacets)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	params, err := ParseListParams(c)
	if err != nil {
		return middleware.BadRequest("", err)
	}

	page, err := h.uc.ListJobs(c.Context(), params)
	if err != nil {
		return mapUsecaseError(err)
	}

	st := params.State()
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.JobListResponse{
		Items:   dto.FromJobs(page.Items),
		Total:   page.Total,
		Visible: page.Visible,
		HasMore: page.HasMore,
		State: dto.ListStateResponse{
			Query:    st.Query(),
			Location: st.Location(),
			Type:     st.Type(),
			Tags:     st.Tags(),
			Sort:     string(st.Sort()),
		},
	})
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	j, err := h.uc.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromJob(j))
}

func (h *JobsHandler) HandleFacets(c fiber.Ctx) error {
	f := h.uc.Facets(c.Context())
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FacetsResponse{
		Locations: nonNil(f.Locations),
		Types:     nonNil(f.Types),
		Tags:      nonNil(f.Tags),
	})
}

// HandleApply acknowledges the request; nothing is stored or forwarded.
func (h *JobsHandler) HandleApply(c fiber.Ctx) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	receipt, err := h.apply.Apply(c.Context(), id, c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusAccepted, response.MessageAccepted, dto.ApplyResponse{
		JobID:       receipt.JobID,
		Status:      receipt.Status,
		Message:     "Online applications are not supported yet. Contact " + receipt.Company + " directly.",
		RequestedAt: receipt.RequestedAt.Format(time.RFC3339),
	})
}

// ParseListParams reads q, location, type, tags, sort and visible from the query string.
func ParseListParams(c fiber.Ctx) (usecase.JobListParams, error) {
	visible, err := parseQueryIntStrict(c, "visible", 0)
	if err != nil {
		return usecase.JobListParams{}, err
	}
	return usecase.JobListParams{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Type:     c.Query("type"),
		Tags:     parseListQuery(c.Query("tags")),
		Sort:     c.Query("sort"),
		Visible:  visible,
	}, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func parseListQuery(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
