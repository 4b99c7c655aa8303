package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"partscan/internal/analyzer/export"
	"partscan/internal/analyzer/parser"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Upload Handlers
// ============================================================

// Analyze accepts a drawing in multipart field "file" and returns the
// extracted geometry with weight, cost and ranked alternatives.
func (h *Handler) Analyze(c fiber.Ctx) error {
	file, ok, err := uploadedFile(c, "ANALYZE")
	if !ok {
		return err
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	analysis, err := h.analyzer.Analyze(c.Context(), file.Filename, f)
	if err != nil {
		return fail(c, "ANALYZE", err)
	}
	return c.JSON(analysis)
}

// Preview renders the XY projection of an uploaded drawing as SVG.
func (h *Handler) Preview(c fiber.Ctx) error {
	file, ok, err := uploadedFile(c, "PREVIEW")
	if !ok {
		return err
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	g, err := h.analyzer.Extract(file.Filename, f)
	if err != nil {
		return fail(c, "PREVIEW", err)
	}

	svg, err := h.renderer.Render(g)
	if err != nil {
		return fail(c, "PREVIEW", err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ExportXLSX analyzes an uploaded drawing and returns the report workbook.
func (h *Handler) ExportXLSX(c fiber.Ctx) error {
	file, ok, err := uploadedFile(c, "EXPORT")
	if !ok {
		return err
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	analysis, err := h.analyzer.Analyze(c.Context(), file.Filename, f)
	if err != nil {
		return fail(c, "EXPORT", err)
	}

	data, err := export.AlternativesXLSX(analysis.Material, analysis.Geometry, analysis.Alternatives)
	if err != nil {
		return fail(c, "EXPORT", err)
	}
	log.Printf("[EXPORT] %s: %d bytes", analysis.ID, len(data))

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analysis-%s.xlsx"`, analysis.ID))
	return c.Send(data)
}

// uploadedFile fetches the "file" form field and checks its extension.
// When ok is false the response has already been written and err must be
// returned by the caller.
func uploadedFile(c fiber.Ctx, tag string) (*multipart.FileHeader, bool, error) {
	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("[%s] FormFile error: %v", tag, err)
		return nil, false, c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	if file.Filename == "" {
		return nil, false, c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "no selected file"})
	}

	if !parser.Supported(parser.ExtFromFilename(file.Filename)) {
		return nil, false, c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file type not allowed"})
	}

	log.Printf("[%s] File received: %s, size: %d", tag, file.Filename, file.Size)
	return file, true, nil
}
