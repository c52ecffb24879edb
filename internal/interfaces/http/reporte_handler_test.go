package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/application/reportes"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	apphttp "github.com/grupocodev/facturas-api/internal/interfaces/http"
)

// reporteRepoFake devuelve una fila de exportación fija; el resto de los
// reportes no interviene en estos casos.
type reporteRepoFake struct{}

func (f *reporteRepoFake) Dashboard(context.Context, dto.PeriodoFilter) (*dto.ReporteDashboard, error) {
	return &dto.ReporteDashboard{}, nil
}

func (f *reporteRepoFake) Ventas(context.Context, dto.PeriodoFilter, string) (*dto.ReporteVentas, error) {
	return &dto.ReporteVentas{}, nil
}

func (f *reporteRepoFake) ITBMS(context.Context, dto.PeriodoFilter) (*dto.ReporteITBMS, error) {
	return &dto.ReporteITBMS{}, nil
}

func (f *reporteRepoFake) PerformanceOCR(context.Context, dto.PeriodoFilter) (*dto.ReportePerformanceOCR, error) {
	return &dto.ReportePerformanceOCR{}, nil
}

func (f *reporteRepoFake) ActividadEmisores(context.Context, dto.PeriodoFilter, int) (*dto.ReporteActividadEmisores, error) {
	return &dto.ReporteActividadEmisores{}, nil
}

func (f *reporteRepoFake) ExportFacturas(context.Context, dto.PeriodoFilter, string) ([]dto.FacturaExport, error) {
	return []dto.FacturaExport{{
		NumeroFactura: "F-001",
		EmisorNombre:  "Acme",
		EmisorRUC:     "155-123",
		FechaFactura:  "2024-03-15",
		Total:         decimal.RequireFromString("107.00"),
	}}, nil
}

func (f *reporteRepoFake) ExportEmisores(context.Context, dto.PeriodoFilter) ([]dto.EmisorExport, error) {
	return nil, nil
}

var _ repository.ReporteRepository = (*reporteRepoFake)(nil)

func buildExportApp() *fiber.App {
	app := fiber.New()
	handler := apphttp.NewReporteHandler(reportes.NewUseCase(&reporteRepoFake{}))
	app.Post("/api/reportes/export",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.EmpresaFilter(),
		handler.Export,
	)
	return app
}

func postExport(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/reportes/export", strings.NewReader(body))
	req.Header.Set("Authorization", tokenForRol(t, "admin"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// formato=csv responde el archivo con Content-Disposition de descarga.
func TestExport_CSVComoDescarga(t *testing.T) {
	app := buildExportApp()

	resp := postExport(t, app, `{"tipo":"facturas","formato":"csv"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".csv")

	cuerpo, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lineas := strings.Split(strings.TrimSpace(string(cuerpo)), "\n")
	require.Len(t, lineas, 2, "cabecera + una fila")
	assert.True(t, strings.HasPrefix(lineas[1], "F-001,Acme,155-123,"))
}

// Sin formato csv la respuesta va en el sobre JSON habitual.
func TestExport_JSONEnSobre(t *testing.T) {
	app := buildExportApp()

	resp := postExport(t, app, `{"tipo":"facturas","formato":"json"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "application/json")

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Tipo              string `json:"tipo"`
			CantidadRegistros int    `json:"cantidad_registros"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "facturas", body.Data.Tipo)
	assert.Equal(t, 1, body.Data.CantidadRegistros)
}

func TestExport_TipoDesconocido(t *testing.T) {
	app := buildExportApp()

	resp := postExport(t, app, `{"tipo":"inventado"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
