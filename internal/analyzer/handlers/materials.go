package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Catalog Handlers
// ============================================================

type recalculateRequest struct {
	Material string   `json:"material"`
	Volume   *float64 `json:"volume"`
}

type alternativesRequest struct {
	Material string   `json:"material"`
	Volume   *float64 `json:"volume"`
	Required []string `json:"required"`
}

type compatibilityRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Materials lists the catalog; ?q= searches name and category, ?category= filters.
func (h *Handler) Materials(c fiber.Ctx) error {
	materials, err := h.analyzer.Materials(c.Context(), c.Query("q"), c.Query("category"))
	if err != nil {
		return fail(c, "CATALOG", err)
	}
	return c.JSON(materials)
}

func (h *Handler) Recalculate(c fiber.Ctx) error {
	var req recalculateRequest
	if err := decodeBody(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Material == "" || req.Volume == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "material and volume are required"})
	}

	est, err := h.analyzer.Recalculate(c.Context(), req.Material, *req.Volume)
	if err != nil {
		return fail(c, "RECALCULATE", err)
	}
	return c.JSON(est)
}

func (h *Handler) Alternatives(c fiber.Ctx) error {
	var req alternativesRequest
	if err := decodeBody(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Material == "" || req.Volume == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "material and volume are required"})
	}

	results, err := h.analyzer.Alternatives(c.Context(), req.Material, *req.Volume, req.Required)
	if err != nil {
		return fail(c, "ALTERNATIVES", err)
	}
	return c.JSON(fiber.Map{
		"material":     req.Material,
		"alternatives": results,
	})
}

func (h *Handler) Compatibility(c fiber.Ctx) error {
	var req compatibilityRequest
	if err := decodeBody(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := h.analyzer.Compatibility(c.Context(), req.A, req.B)
	if err != nil {
		return fail(c, "COMPATIBILITY", err)
	}
	return c.JSON(res)
}

var (
	errEmptyBody   = errors.New("empty body")
	errInvalidJSON = errors.New("invalid json")
)

// decodeBody unmarshals a JSON request body into v.
func decodeBody(body []byte, v any) error {
	if len(body) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errInvalidJSON
	}
	return nil
}
