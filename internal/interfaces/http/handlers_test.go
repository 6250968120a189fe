package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-registradora/internal/application/analytics"
	"github.com/jhoicas/caja-registradora/internal/application/auth"
	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/application/inventory"
	"github.com/jhoicas/caja-registradora/internal/application/pos"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/memory"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/records"
	apphttp "github.com/jhoicas/caja-registradora/internal/interfaces/http"
	"github.com/jhoicas/caja-registradora/pkg/logger"
	"github.com/jhoicas/caja-registradora/pkg/metrics"
)

type fakeRenderer struct{}

func (fakeRenderer) GenerateReceiptPDF(_ context.Context, r *pos.Receipt) ([]byte, error) {
	return []byte("%PDF-fake " + r.SaleDate.Format(entity.SaleDateLayout)), nil
}

func newTestApp(t *testing.T, deps apphttp.RouterDeps) (*fiber.App, *pos.Session) {
	t.Helper()
	store := memory.NewRecordStore()
	session := pos.NewSession(
		records.NewInventoryRepository(store, "inventory.csv"),
		records.NewSalesRepository(store, "sales.csv"),
		pos.Options{
			Policy:  inventory.PolicyCreate,
			Pricing: entity.DefaultPricingConfiguration(),
			Clock:   func() time.Time { return time.Date(2026, 5, 2, 18, 30, 0, 0, time.Local) },
		},
		logger.Nop(),
		nil,
	)
	require.NoError(t, session.Open(context.Background()))

	deps.Session = session
	deps.ReportUC = analytics.NewReportUseCase(session)
	app := fiber.New()
	apphttp.Router(app, deps)
	return app, session
}

func call(t *testing.T, app *fiber.App, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAPI_FlujoDeVenta(t *testing.T) {
	app, _ := newTestApp(t, apphttp.RouterDeps{Receipts: fakeRenderer{}})

	var item dto.InventoryItemResponse
	status := call(t, app, http.MethodPost, "/api/inventory", dto.AddItemRequest{Name: "Queso", Price: "112", Stock: "3"}, &item)
	require.Equal(t, http.StatusCreated, status)

	var cart dto.CartResponse
	status = call(t, app, http.MethodPost, "/api/cart", dto.AddToCartRequest{ItemID: item.ID, Quantity: 2}, &cart)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "224.00", cart.Summary.Total.StringFixed(2))
	assert.Equal(t, "24.00", cart.Summary.Tax.StringFixed(2))

	var checkout dto.CheckoutResponse
	status = call(t, app, http.MethodPost, "/api/cart/checkout", nil, &checkout)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, checkout.Records, 1)
	assert.Equal(t, "2026-05-02 18:30:00", checkout.Records[0].SaleDate)

	var list dto.InventoryListResponse
	call(t, app, http.MethodGet, "/api/inventory", nil, &list)
	assert.Equal(t, 1, list.Items[0].Stock)

	var report dto.SalesReportResponse
	status = call(t, app, http.MethodGet, "/api/sales/report?from=2026-05-02&to=2026-05-02", nil, &report)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, report.Units)
	assert.Equal(t, 1, report.Checkouts)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sales/"+checkout.Records[0].ID+"/receipt", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	var rev dto.ReversalResponse
	status = call(t, app, http.MethodDelete, "/api/sales/"+checkout.Records[0].ID, nil, &rev)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, rev.Restocked)

	call(t, app, http.MethodGet, "/api/inventory", nil, &list)
	assert.Equal(t, 3, list.Items[0].Stock)
}

func TestAPI_CheckoutVacio_Informa(t *testing.T) {
	app, _ := newTestApp(t, apphttp.RouterDeps{})

	var info dto.InfoResponse
	status := call(t, app, http.MethodPost, "/api/cart/checkout", nil, &info)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "EMPTY_CART", info.Code)
}

func TestAPI_CodigosDeError(t *testing.T) {
	app, session := newTestApp(t, apphttp.RouterDeps{})
	item, err := session.AddItem(context.Background(), dto.AddItemRequest{Name: "Pan", Price: "1", Stock: "2"})
	require.NoError(t, err)

	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/cart", dto.AddToCartRequest{ItemID: item.ID, Quantity: 5}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	status = call(t, app, http.MethodPost, "/api/inventory", dto.AddItemRequest{Name: "Leche", Price: "abc"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", e.Code)

	status = call(t, app, http.MethodDelete, "/api/sales/no-existe", nil, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", e.Code)

	status = call(t, app, http.MethodDelete, "/api/inventory/"+item.ID+"?quantity=dos", nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)

	status = call(t, app, http.MethodGet, "/api/sales/report?from=ayer", nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)

	status = call(t, app, http.MethodGet, "/api/sales/x/receipt", nil, &e)
	assert.Equal(t, http.StatusNotImplemented, status)
}

func TestAPI_QuitarDelCarrito(t *testing.T) {
	app, session := newTestApp(t, apphttp.RouterDeps{})
	item, err := session.AddItem(context.Background(), dto.AddItemRequest{Name: "Pan", Price: "1", Stock: "5"})
	require.NoError(t, err)

	var cart dto.CartResponse
	call(t, app, http.MethodPost, "/api/cart", dto.AddToCartRequest{ItemID: item.ID, Quantity: 4}, &cart)
	lineID := cart.Lines[0].ID

	call(t, app, http.MethodDelete, "/api/cart/"+lineID+"?quantity=1", nil, &cart)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	status := call(t, app, http.MethodDelete, "/api/cart/"+lineID, nil, &cart)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 5, session.Inventory().Items[0].Stock)
}

func TestAPI_Preferencias(t *testing.T) {
	app, _ := newTestApp(t, apphttp.RouterDeps{})

	var prefs dto.PreferencesResponse
	status := call(t, app, http.MethodPut, "/api/preferences", dto.UpdatePreferencesRequest{TaxPercentage: "15", DiscountPercentage: "5"}, &prefs)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "15", prefs.TaxPercentage)

	var e dto.ErrorResponse
	status = call(t, app, http.MethodPut, "/api/preferences", dto.UpdatePreferencesRequest{TaxPercentage: "x", DiscountPercentage: "5"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)

	call(t, app, http.MethodGet, "/api/preferences", nil, &prefs)
	assert.Equal(t, "15", prefs.TaxPercentage)
	assert.Equal(t, "5", prefs.DiscountPercentage)
}

func TestAPI_LoginYRutasProtegidas(t *testing.T) {
	hash, err := auth.HashPIN("1234")
	require.NoError(t, err)
	authUC := auth.NewAuthUseCase(hash, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer})
	app, _ := newTestApp(t, apphttp.RouterDeps{AuthUC: authUC, JWTSecret: testJWTSecret, AuthEnabled: true})

	var e dto.ErrorResponse
	status := call(t, app, http.MethodGet, "/api/inventory", nil, &e)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = call(t, app, http.MethodPost, "/api/auth/login", dto.LoginRequest{Operator: testOperator, PIN: "0000"}, &e)
	assert.Equal(t, http.StatusUnauthorized, status)

	var login dto.LoginResponse
	status = call(t, app, http.MethodPost, "/api/auth/login", dto.LoginRequest{Operator: testOperator, PIN: "1234"}, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_Metricas(t *testing.T) {
	m := metrics.New("test")
	app, _ := newTestApp(t, apphttp.RouterDeps{Metrics: m})

	call(t, app, http.MethodGet, "/api/cart", nil, &dto.CartResponse{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `test_http_requests_total{method="GET",path="/api/cart`)
}
