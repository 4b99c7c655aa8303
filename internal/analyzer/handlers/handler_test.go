package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"partscan/internal/analyzer/parser"
	"partscan/internal/analyzer/recommender"
	"partscan/internal/analyzer/repository"
	"partscan/internal/analyzer/service"
)

const bracketStep = `ISO-10303-21;
DATA;
#1=PRODUCT('Bracket','Bracket','',(#2));
#3=DESCRIPTIVE_REPRESENTATION_ITEM('MATERIAL','AISI 1018 Steel');
#10=CARTESIAN_POINT('',(0.,0.,0.));
#11=CARTESIAN_POINT('',(20.,100.,40.));
ENDSEC;
`

type downStore struct{}

func (downStore) Ping(ctx context.Context) error { return errors.New("down") }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	app := fiber.New()
	New(service.NewAnalyzer(repo), repo).Register(app)
	return app
}

func uploadRequest(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestReadyReportsStoreFailure(t *testing.T) {
	app := fiber.New()
	New(nil, downStore{}).Register(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAnalyze(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(uploadRequest(t, "/analyze", "bracket.step", bracketStep))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ID       string `json:"id"`
		Material string `json:"material"`
		Geometry struct {
			Dimensions struct {
				Length float64 `json:"length"`
				Width  float64 `json:"width"`
				Height float64 `json:"height"`
			} `json:"dimensions"`
			Volume float64 `json:"volume"`
		} `json:"geometry"`
		Estimate struct {
			Weight float64 `json:"weight"`
		} `json:"estimate"`
		Alternatives []struct {
			Material struct {
				Name string `json:"name"`
			} `json:"material"`
			Score float64 `json:"score"`
		} `json:"alternatives"`
	}
	decode(t, resp, &body)

	assert.NotEmpty(t, body.ID)
	assert.Equal(t, "AISI 1018 Steel", body.Material)
	assert.Equal(t, 100.0, body.Geometry.Dimensions.Length)
	assert.Equal(t, 40.0, body.Geometry.Dimensions.Width)
	assert.Equal(t, 20.0, body.Geometry.Dimensions.Height)
	assert.InDelta(t, 7.87*80000/1e6, body.Estimate.Weight, 1e-9)
	require.Len(t, body.Alternatives, 5)
	for _, alt := range body.Alternatives {
		assert.NotEqual(t, "AISI 1018 Steel", alt.Material.Name)
	}
}

func TestAnalyzeRejectsBadUploads(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(uploadRequest(t, "/analyze", "model.obj", "v 0 0 0"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/analyze", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreview(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(uploadRequest(t, "/preview", "bracket.stp", bracketStep))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<polyline")
}

func TestExportXLSX(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(uploadRequest(t, "/export/xlsx", "bracket.stp", bracketStep))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Alternatives")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestMaterials(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		query string
		want  int
	}{
		{"", 17},
		{"?category=Aluminum", 3},
		{"?q=steel", 4},
		{"?q=stainless&category=Steel", 1},
		{"?category=Wood", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/materials"+tt.query, nil))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var materials []map[string]any
			decode(t, resp, &materials)
			assert.Len(t, materials, tt.want)
		})
	}
}

func TestRecalculate(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/recalculate", `{"material":"AISI 1018 Steel","volume":1000000}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var est struct {
		Weight float64 `json:"weight"`
		Cost   float64 `json:"cost"`
	}
	decode(t, resp, &est)
	assert.InDelta(t, 7.87, est.Weight, 1e-9)
	assert.InDelta(t, 9.444, est.Cost, 1e-9)

	for _, body := range []string{
		``,
		`{bad`,
		`{"material":"ABS"}`,
		`{"material":"ABS","volume":0}`,
		`{"material":"ABS","volume":-3}`,
	} {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/recalculate", body))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestAlternatives(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/alternatives",
		`{"material":"Ti-6Al-4V","volume":5000,"required":["tensile_strength"]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Alternatives []map[string]any `json:"alternatives"`
	}
	decode(t, resp, &body)
	assert.Len(t, body.Alternatives, 5)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/alternatives", `{"material":"ABS","volume":10,"required":["color"]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompatibility(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/compatibility", `{"a":"AZ31B Magnesium","b":"Ti-6Al-4V"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res struct {
		Compatible bool   `json:"compatible"`
		Reason     string `json:"reason"`
	}
	decode(t, resp, &res)
	assert.False(t, res.Compatible)
	assert.NotEmpty(t, res.Reason)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/compatibility", `{"a":"ABS","b":"Unobtainium"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/compatibility", `{"a":"ABS"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported format", parser.ErrUnsupportedFormat, http.StatusBadRequest},
		{"invalid volume", recommender.ErrInvalidVolume, http.StatusBadRequest},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"read failure", &parser.ReadError{Err: io.ErrUnexpectedEOF}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestDecodeBody(t *testing.T) {
	var req recalculateRequest

	assert.ErrorIs(t, decodeBody(nil, &req), errEmptyBody)
	assert.ErrorIs(t, decodeBody([]byte(`{bad`), &req), errInvalidJSON)

	require.NoError(t, decodeBody([]byte(`{"material":"ABS","volume":2}`), &req))
	assert.Equal(t, "ABS", req.Material)
	require.NotNil(t, req.Volume)
	assert.Equal(t, 2.0, *req.Volume)
}

func TestDecodeBodyErrorReachesClient(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/alternatives", `{bad`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "invalid json", body.Error)
}
