package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rupamthxt/vectrasmoke/internal/metrics"
	"github.com/rupamthxt/vectrasmoke/internal/store"
)

type Handler struct {
	store   *store.Store
	metrics *metrics.Server
}

func NewHandler(s *store.Store, m *metrics.Server) *Handler {
	return &Handler{store: s, metrics: m}
}

func (h *Handler) Insert(c *fiber.Ctx) error {
	start := time.Now()
	h.metrics.InsertRequests.Inc()

	var req InsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse json"})
	}

	if req.ID == "" || len(req.Vector) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id and vector are required"})
	}

	if err := h.store.Insert(req.ID, req.Vector); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	h.metrics.TotalVectors.Set(float64(h.store.Len()))
	h.metrics.InsertDuration.Observe(time.Since(start).Seconds())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "vector saved"})
}

func (h *Handler) Search(c *fiber.Ctx) error {
	h.metrics.SearchRequests.Inc()

	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse json"})
	}

	if len(req.Vector) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vector is required"})
	}

	if req.TopK <= 0 {
		req.TopK = 1
	}

	start := time.Now()
	results, err := h.store.Search(req.Vector, req.TopK)
	took := time.Since(start)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	h.metrics.SearchDuration.Observe(took.Seconds())

	items := make([]SearchResult, 0, len(results))
	for _, res := range results {
		items = append(items, SearchResult{ID: res.ID, Distance: res.Distance})
	}

	return c.JSON(SearchResponse{
		Results: items,
		Count:   len(items),
		Latency: took.String(),
	})
}

func statusFor(err error) int {
	var dm *store.ErrDimensionMismatch
	switch {
	case errors.As(err, &dm), errors.Is(err, store.ErrEmptyID), errors.Is(err, store.ErrEmptyVector):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
