package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"partscan/internal/analyzer/mapper"
	"partscan/internal/analyzer/parser"
	"partscan/internal/analyzer/recommender"
	"partscan/internal/analyzer/repository"
	"partscan/internal/analyzer/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Analyzer Handler
// ============================================================

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	analyzer *service.Analyzer
	renderer *mapper.PreviewRenderer
	store    Pinger
}

func New(analyzer *service.Analyzer, store Pinger) *Handler {
	return &Handler{
		analyzer: analyzer,
		renderer: mapper.NewPreviewRenderer(),
		store:    store,
	}
}

// Register mounts all analyzer routes on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)

	r.Post("/analyze", h.Analyze)
	r.Post("/preview", h.Preview)
	r.Post("/export/xlsx", h.ExportXLSX)

	r.Get("/materials", h.Materials)
	r.Post("/recalculate", h.Recalculate)
	r.Post("/alternatives", h.Alternatives)
	r.Post("/compatibility", h.Compatibility)
}

// ============================================================
// Health
// ============================================================

func (h *Handler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready fails while the catalog database does not answer.
func (h *Handler) Ready(c fiber.Ctx) error {
	if h.store != nil {
		if err := h.store.Ping(c.Context()); err != nil {
			log.Printf("[HEALTH] Catalog ping failed: %v", err)
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// ============================================================
// Errors
// ============================================================

// statusFor maps domain errors to HTTP codes. Read failures of an accepted
// upload stay 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat),
		errors.Is(err, recommender.ErrInvalidVolume),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fail(c fiber.Ctx, tag string, err error) error {
	status := statusFor(err)
	log.Printf("[%s] %d: %v", tag, status, err)
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
