package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/application/auth"
	"github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/application/logistics"
	"github.com/jhoicas/distribuidora-api/internal/application/sales"
	"github.com/jhoicas/distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/distribuidora-api/internal/interfaces/http"
)

// newTestAPI arma el router completo sobre el store en memoria.
func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := zerolog.Nop()

	ledger := inventory.NewLedger(store, repos, log)
	orders := sales.NewOrderUseCase(store, repos, ledger, sales.Config{}, log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		WarehouseUC: usecase.NewWarehouseUseCase(repos.Warehouses),
		ProductUC:   usecase.NewProductUseCase(repos.Products),
		CustomerUC:  usecase.NewCustomerUseCase(repos.Customers),
		FleetUC:     usecase.NewFleetUseCase(repos.Vehicles, repos.Drivers, repos.Zones),
		Ledger:      ledger,
		OrderUC:     orders,
		LogisticsUC: logistics.NewLogisticsUseCase(store, repos, orders, nil, nil, log),
		JWTSecret:   testJWTSecret,
	})
	return app
}

// call envía JSON con el token del rol indicado y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, role string, body any, out any) int {
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
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type idResponse struct {
	ID string `json:"id"`
}

func TestRouter_Health(t *testing.T) {
	app := newTestAPI(t)
	var body map[string]string
	status := call(t, app, http.MethodGet, "/health", "", nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	app := newTestAPI(t)

	status := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "Ana@Distribuidora.pe", "password": "secreta123", "name": "Ana", "role": "vendedor",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	status = call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ana@distribuidora.pe", "password": "secreta123", "name": "Ana",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var login map[string]any
	status = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@distribuidora.pe", "password": "secreta123",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, login["token"])

	status = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@distribuidora.pe", "password": "otra-clave",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_RoleEnforcedOnWrites(t *testing.T) {
	app := newTestAPI(t)

	status := call(t, app, http.MethodPost, "/api/warehouses", "vendedor", map[string]string{"code": "ALM-01", "name": "Principal"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status = call(t, app, http.MethodPost, "/api/warehouses", "almacenero", map[string]string{"code": "ALM-01", "name": "Principal"}, nil)
	assert.Equal(t, http.StatusCreated, status)

	status = call(t, app, http.MethodGet, "/api/warehouses", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_NotFoundMapsTo404(t *testing.T) {
	app := newTestAPI(t)

	var body map[string]any
	status := call(t, app, http.MethodGet, "/api/orders/no-existe", "admin", nil, &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apphttp.CodeNotFound, body["code"])
}

func TestRouter_ConfirmWithoutStockReturnsDetails(t *testing.T) {
	app := newTestAPI(t)

	var wh, prod, cust idResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/warehouses", "admin",
		map[string]string{"code": "ALM-01", "name": "Principal"}, &wh))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/products", "admin",
		map[string]any{"sku": "ARZ-5K", "name": "Arroz 5kg", "price": "20.00"}, &prod))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/customers", "vendedor",
		map[string]any{"name": "Bodega Rosita", "address": "Av. Grau 123"}, &cust))

	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/inventory/purchases", "almacenero", map[string]any{
		"warehouse_id": wh.ID, "product_id": prod.ID, "quantity": 10, "unit_cost": "15.00",
	}, nil))

	var order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/orders", "vendedor", map[string]any{
		"customer_id": cust.ID,
		"lines":       []map[string]any{{"product_id": prod.ID, "quantity": 12}},
	}, &order))
	assert.Equal(t, "borrador", order.Status)

	var errBody struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	status := call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/confirm", "vendedor",
		map[string]string{"warehouse_id": wh.ID}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apphttp.CodeInsufficientStock, errBody.Code)
	assert.EqualValues(t, 12, errBody.Details["requested"])
	assert.EqualValues(t, 10, errBody.Details["available"])

	var totals map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/products/"+prod.ID+"/totals", "vendedor", nil, &totals))
	assert.EqualValues(t, 10, totals["available"])
}

func TestRouter_ShipmentForDraftOrderIsNotReady(t *testing.T) {
	app := newTestAPI(t)

	var prod, cust idResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/products", "admin",
		map[string]any{"sku": "AZU-1K", "name": "Azúcar 1kg", "price": "4.50"}, &prod))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/customers", "vendedor",
		map[string]any{"name": "Minimarket Sol"}, &cust))

	var order idResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/orders", "vendedor", map[string]any{
		"customer_id": cust.ID,
		"lines":       []map[string]any{{"product_id": prod.ID, "quantity": 1}},
	}, &order))

	var errBody map[string]any
	status := call(t, app, http.MethodPost, "/api/shipments/order/"+order.ID, "logistica", nil, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, apphttp.CodeOrderNotReady, errBody["code"])
}

func TestRouter_UnknownProductIs422(t *testing.T) {
	app := newTestAPI(t)

	var cust idResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/customers", "vendedor",
		map[string]any{"name": "Minimarket Sol"}, &cust))

	var errBody map[string]any
	status := call(t, app, http.MethodPost, "/api/orders", "vendedor", map[string]any{
		"customer_id": cust.ID,
		"lines":       []map[string]any{{"product_id": "fantasma", "quantity": 1}},
	}, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, apphttp.CodeUnknownProduct, errBody["code"])
}

func TestRouter_LowStockAndOverdueCredit(t *testing.T) {
	app := newTestAPI(t)

	var wh, prod idResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/warehouses", "admin",
		map[string]string{"code": "ALM-01", "name": "Principal"}, &wh))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/products", "admin",
		map[string]any{"sku": "LEC-400", "name": "Leche 400g", "price": "3.80", "min_stock": 5}, &prod))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/inventory/purchases", "almacenero", map[string]any{
		"warehouse_id": wh.ID, "product_id": prod.ID, "quantity": 2, "unit_cost": "3.00",
	}, nil))

	var low []map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/low-stock?warehouse_id="+wh.ID, "almacenero", nil, &low))
	require.Len(t, low, 1)
	assert.Equal(t, prod.ID, low[0]["product_id"])
	assert.EqualValues(t, 2, low[0]["on_hand"])
	assert.EqualValues(t, 7, low[0]["ideal_stock"])
	assert.EqualValues(t, 5, low[0]["suggested_qty"])
	assert.EqualValues(t, 1, low[0]["priority"])

	status := call(t, app, http.MethodGet, "/api/inventory/low-stock?warehouse_id=no-existe", "almacenero", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// estática: no la captura /customers/:id
	var debts []map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/customers/overdue-credit", "contador", nil, &debts))
	assert.Empty(t, debts)
	status = call(t, app, http.MethodGet, "/api/customers/overdue-credit", "almacenero", nil, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRouter_OrderCannotBeDeliveredOutsideShipment(t *testing.T) {
	app := newTestAPI(t)

	var prod, cust idResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/products", "admin",
		map[string]any{"sku": "AZU-1K", "name": "Azúcar 1kg", "price": "4.50"}, &prod))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/customers", "vendedor",
		map[string]any{"name": "Minimarket Sol"}, &cust))
	var order idResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/orders", "vendedor", map[string]any{
		"customer_id": cust.ID,
		"lines":       []map[string]any{{"product_id": prod.ID, "quantity": 1}},
	}, &order))

	status := call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/deliver", "logistica", nil, nil)
	assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, status)

	var got map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/orders/"+order.ID, "logistica", nil, &got))
	assert.Equal(t, "borrador", got["status"])
}
