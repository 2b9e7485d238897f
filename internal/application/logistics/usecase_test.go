package logistics_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/application/logistics"
	"github.com/jhoicas/distribuidora-api/internal/application/sales"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/memory"
)

type captureManifest struct{ got *logistics.RouteManifest }

func (c *captureManifest) RenderRouteManifest(_ context.Context, m *logistics.RouteManifest) ([]byte, error) {
	c.got = m
	return []byte("%PDF"), nil
}

type captureDespatch struct{ got *logistics.DespatchAdvice }

func (c *captureDespatch) BuildDespatchAdvice(_ context.Context, d *logistics.DespatchAdvice) ([]byte, error) {
	c.got = d
	return []byte("<DespatchAdvice/>"), nil
}

type env struct {
	uc       *logistics.LogisticsUseCase
	orders   *sales.OrderUseCase
	repos    repository.Repos
	manifest *captureManifest
	despatch *captureDespatch
}

func newEnv(t *testing.T) env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "alm-1", Code: "ALM-01", Name: "Principal", Type: entity.WarehouseTypeMain, Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "prod-1", SKU: "ARZ-5KG", Name: "Arroz 5kg", Price: decimal.NewFromInt(10), Active: true}))
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: "cli-1", Name: "Bodega Rosita", TaxID: "10456789012", Address: "Av. Brasil 123", Active: true}))
	require.NoError(t, repos.Vehicles.Create(ctx, &entity.Vehicle{ID: "veh-1", Code: "VH-01", Plate: "ABC-123", Type: entity.VehicleVan, Active: true, Available: true}))
	require.NoError(t, repos.Vehicles.Create(ctx, &entity.Vehicle{ID: "veh-2", Code: "VH-02", Plate: "XYZ-987", Type: entity.VehicleMotorcycle, Active: true, Available: true}))
	require.NoError(t, repos.Drivers.Create(ctx, &entity.Driver{ID: "drv-1", Code: "CH-01", FirstName: "Juan", LastName: "Quispe", DocumentID: "44556677", Active: true, Available: true}))
	require.NoError(t, repos.Drivers.Create(ctx, &entity.Driver{ID: "drv-2", Code: "CH-02", FirstName: "Rosa", DocumentID: "11223344", Active: true, Available: true}))

	ledger := appinventory.NewLedger(store, repos, zerolog.Nop())
	_, err := ledger.AdjustStock(ctx, appinventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 100})
	require.NoError(t, err)

	orders := sales.NewOrderUseCase(store, repos, ledger, sales.Config{DefaultWarehouseID: "alm-1"}, zerolog.Nop())
	m, d := &captureManifest{}, &captureDespatch{}
	return env{
		uc:       logistics.NewLogisticsUseCase(store, repos, orders, m, d, zerolog.Nop()),
		orders:   orders,
		repos:    repos,
		manifest: m,
		despatch: d,
	}
}

// confirmedOrder crea una venta de qty unidades y la confirma.
func (e env) confirmedOrder(t *testing.T, qty int) *entity.Order {
	t.Helper()
	ctx := context.Background()
	o, err := e.orders.Create(ctx, sales.CreateOrderInput{CustomerID: "cli-1", Lines: []sales.LineInput{{ProductID: "prod-1", Quantity: qty}}})
	require.NoError(t, err)
	o, err = e.orders.Confirm(ctx, o.ID, "")
	require.NoError(t, err)
	return o
}

func (e env) shipment(t *testing.T, qty int) *entity.Shipment {
	t.Helper()
	o := e.confirmedOrder(t, qty)
	today := time.Now()
	s, err := e.uc.CreateForOrder(context.Background(), o.ID, &today)
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }

func TestCreateForOrder(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	draft, err := e.orders.Create(ctx, sales.CreateOrderInput{CustomerID: "cli-1", Lines: []sales.LineInput{{ProductID: "prod-1", Quantity: 1}}})
	require.NoError(t, err)
	_, err = e.uc.CreateForOrder(ctx, draft.ID, nil)
	var onr *domain.OrderNotReadyError
	require.True(t, errors.As(err, &onr))
	assert.Equal(t, string(entity.OrderDraft), onr.State)

	o := e.confirmedOrder(t, 2)
	s, err := e.uc.CreateForOrder(ctx, o.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentPending, s.Status)
	assert.True(t, strings.HasPrefix(s.Code, "ENV"+time.Now().Format("20060102")), s.Code)
	assert.True(t, strings.HasSuffix(s.Code, "0001"), s.Code)

	_, err = e.uc.CreateForOrder(ctx, o.ID, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = e.uc.CreateForOrder(ctx, "no-existe", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShipmentLifecycle_DeliversOrder(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	s := e.shipment(t, 3)

	_, err := e.uc.Start(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	s, err = e.uc.Assign(ctx, s.ID, logistics.AssignInput{VehicleID: "veh-1", DriverID: "drv-1"})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentAssigned, s.Status)
	require.NotNil(t, s.VehicleID)
	assert.Equal(t, "veh-1", *s.VehicleID)

	s, err = e.uc.Start(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentInTransit, s.Status)
	o, err := e.orders.Get(ctx, s.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderInTransit, o.Status)

	rec, err := e.repos.Stock.Get(ctx, "prod-1", "alm-1")
	require.NoError(t, err)
	assert.Equal(t, 97, rec.OnHand)
	assert.Equal(t, 0, rec.Reserved)

	_, err = e.uc.Complete(ctx, s.ID, logistics.ProofOfDelivery{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s, err = e.uc.Complete(ctx, s.ID, logistics.ProofOfDelivery{RecipientName: "Rosa Pérez", RecipientDocument: "40404040", Signed: true})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentDelivered, s.Status)
	assert.NotNil(t, s.DeliveredAt)
	assert.True(t, s.Signed)

	o, err = e.orders.Get(ctx, s.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, o.Status)
	assert.NotNil(t, o.DeliveredAt)

	_, err = e.uc.Complete(ctx, s.ID, logistics.ProofOfDelivery{RecipientName: "Rosa Pérez"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAssign_UnknownResources(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	s := e.shipment(t, 1)

	_, err := e.uc.Assign(ctx, s.ID, logistics.AssignInput{VehicleID: "veh-x", DriverID: "drv-1"})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
	_, err = e.uc.Assign(ctx, s.ID, logistics.AssignInput{VehicleID: "veh-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := e.uc.GetShipment(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentPending, got.Status)
}

func TestFailAndReschedule(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a, b := e.shipment(t, 1), e.shipment(t, 1)

	route, err := e.uc.CreateRoute(ctx, logistics.CreateRouteInput{
		Name: "Ruta Norte", VehicleID: strPtr("veh-1"), DriverID: strPtr("drv-1"), ShipmentIDs: []string{a.ID, b.ID},
	})
	require.NoError(t, err)

	_, err = e.uc.Fail(ctx, a.ID, "", true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	failed, err := e.uc.Fail(ctx, a.ID, "cliente ausente", true)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentRescheduled, failed.Status)
	assert.Equal(t, "cliente ausente", failed.FailureReason)

	lost, err := e.uc.Fail(ctx, b.ID, "dirección inexistente", false)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentNotDelivered, lost.Status)

	r, err := e.uc.GetRoute(ctx, route.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Failed)
	assert.Equal(t, 0, r.Succeeded)

	// la venta no cambia por un intento fallido
	o, err := e.orders.Get(ctx, a.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, o.Status)

	next := time.Now().AddDate(0, 0, 1)
	re, err := e.uc.Reschedule(ctx, a.ID, &next)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentPending, re.Status)
	assert.Nil(t, re.RouteID)
	assert.Nil(t, re.VehicleID)
	assert.Nil(t, re.DriverID)
	require.NotNil(t, re.ScheduledAt)
	assert.WithinDuration(t, next, *re.ScheduledAt, time.Second)

	_, err = e.uc.Reschedule(ctx, b.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRoute_LocksResourcesUntilCompleted(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a, b := e.shipment(t, 1), e.shipment(t, 1)

	route, err := e.uc.CreateRoute(ctx, logistics.CreateRouteInput{
		Name: "Ruta Centro", VehicleID: strPtr("veh-1"), DriverID: strPtr("drv-1"), ShipmentIDs: []string{b.ID, a.ID},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(route.Code, "RUT"+time.Now().Format("20060102")), route.Code)
	assert.Equal(t, 2, route.Total)
	assert.Equal(t, []string{b.ID, a.ID}, route.ShipmentIDs)

	first, err := e.uc.GetShipment(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, first.DeliverySeq)
	assert.Equal(t, 1, *first.DeliverySeq)
	assert.Equal(t, entity.ShipmentAssigned, first.Status)

	v, err := e.repos.Vehicles.GetByID(ctx, "veh-1")
	require.NoError(t, err)
	assert.False(t, v.Available)

	// el vehículo está tomado: la segunda ruta no persiste nada, tampoco el bloqueo del conductor libre
	_, err = e.uc.CreateRoute(ctx, logistics.CreateRouteInput{Name: "Ruta Sur", VehicleID: strPtr("veh-1"), DriverID: strPtr("drv-2")})
	var rue *domain.ResourceUnavailableError
	require.True(t, errors.As(err, &rue))
	assert.Equal(t, domain.EntityVehicle, rue.Resource)
	d2, err := e.repos.Drivers.GetByID(ctx, "drv-2")
	require.NoError(t, err)
	assert.True(t, d2.Available)

	_, err = e.uc.CreateRoute(ctx, logistics.CreateRouteInput{Name: "Ruta Sur", VehicleID: strPtr("veh-2"), DriverID: strPtr("drv-1")})
	assert.ErrorIs(t, err, domain.ErrResourceUnavailable)

	_, err = e.uc.CompleteRoute(ctx, route.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	done, err := e.uc.CompleteRoute(ctx, route.ID, 42.5)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.NotNil(t, done.ReturnedAt)
	assert.Equal(t, 42.5, done.DistanceKm)

	v, err = e.repos.Vehicles.GetByID(ctx, "veh-1")
	require.NoError(t, err)
	assert.True(t, v.Available)

	_, err = e.uc.CompleteRoute(ctx, route.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = e.uc.CreateRoute(ctx, logistics.CreateRouteInput{Name: "Ruta Sur", VehicleID: strPtr("veh-1"), DriverID: strPtr("drv-1")})
	assert.NoError(t, err)
}

func TestCreateRoute_Rejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	s := e.shipment(t, 1)

	_, err := e.uc.CreateRoute(ctx, logistics.CreateRouteInput{ShipmentIDs: []string{s.ID}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.uc.CreateRoute(ctx, logistics.CreateRouteInput{Name: "R", ShipmentIDs: []string{s.ID, s.ID}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.uc.CreateRoute(ctx, logistics.CreateRouteInput{Name: "R", ShipmentIDs: []string{"no-existe"}, VehicleID: strPtr("veh-1")})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
	_, err = e.uc.CreateRoute(ctx, logistics.CreateRouteInput{Name: "R", ZoneID: strPtr("zona-x")})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	v, err := e.repos.Vehicles.GetByID(ctx, "veh-1")
	require.NoError(t, err)
	assert.True(t, v.Available)
}

func TestPendingTodayAndDashboard(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.shipment(t, 1)
	e.shipment(t, 1)

	o := e.confirmedOrder(t, 1)
	tomorrow := time.Now().AddDate(0, 0, 2)
	_, err := e.uc.CreateForOrder(ctx, o.ID, &tomorrow)
	require.NoError(t, err)

	_, err = e.uc.Assign(ctx, a.ID, logistics.AssignInput{VehicleID: "veh-1", DriverID: "drv-1"})
	require.NoError(t, err)

	pending, err := e.uc.PendingToday(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	d, err := e.uc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.ShipmentsTotal)
	assert.Equal(t, 1, d.ShipmentsByStatus[entity.ShipmentPending])
	assert.Equal(t, 1, d.ShipmentsByStatus[entity.ShipmentAssigned])
	assert.Equal(t, 0, d.ShipmentsByStatus[entity.ShipmentDelivered])
	// asignar un envío no bloquea recursos
	assert.Equal(t, 2, d.VehiclesAvailable)
	assert.Equal(t, 2, d.DriversAvailable)
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	s := e.shipment(t, 4)

	route, err := e.uc.CreateRoute(ctx, logistics.CreateRouteInput{
		Name: "Ruta Norte", VehicleID: strPtr("veh-1"), DriverID: strPtr("drv-1"), ShipmentIDs: []string{s.ID},
	})
	require.NoError(t, err)

	pdf, err := e.uc.RouteManifestPDF(ctx, route.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf))
	require.NotNil(t, e.manifest.got)
	require.Len(t, e.manifest.got.Stops, 1)
	assert.Equal(t, "Bodega Rosita", e.manifest.got.Stops[0].Customer.Name)
	assert.Equal(t, "Juan Quispe", e.manifest.got.Driver.FullName())

	xml, err := e.uc.DespatchAdviceXML(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "<DespatchAdvice/>", string(xml))
	require.NotNil(t, e.despatch.got)
	require.Len(t, e.despatch.got.Lines, 1)
	assert.Equal(t, 4, e.despatch.got.Lines[0].Quantity)
	assert.Equal(t, "ARZ-5KG", e.despatch.got.Lines[0].Product.SKU)
	require.NotNil(t, e.despatch.got.Warehouse)
	assert.Equal(t, "ALM-01", e.despatch.got.Warehouse.Code)

	_, err = e.uc.RouteManifestPDF(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRescheduledShipmentCanStartAgain(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	s := e.shipment(t, 3)

	_, err := e.uc.Assign(ctx, s.ID, logistics.AssignInput{VehicleID: "veh-1", DriverID: "drv-1"})
	require.NoError(t, err)
	_, err = e.uc.Start(ctx, s.ID)
	require.NoError(t, err)
	_, err = e.uc.Fail(ctx, s.ID, "cliente ausente", true)
	require.NoError(t, err)

	o, err := e.orders.Get(ctx, s.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderInTransit, o.Status, "la venta sigue en ruta tras el intento fallido")

	_, err = e.uc.Reschedule(ctx, s.ID, nil)
	require.NoError(t, err)
	_, err = e.uc.Assign(ctx, s.ID, logistics.AssignInput{VehicleID: "veh-2", DriverID: "drv-2"})
	require.NoError(t, err)
	started, err := e.uc.Start(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentInTransit, started.Status)

	rec, err := e.repos.Stock.Get(ctx, "prod-1", "alm-1")
	require.NoError(t, err)
	assert.Equal(t, 97, rec.OnHand, "la salida de la venta se registra una sola vez")
	assert.Equal(t, 0, rec.Reserved)
	movs, err := e.repos.Movements.List(ctx, repository.MovementFilter{Kind: entity.KindSale})
	require.NoError(t, err)
	assert.Len(t, movs, 1)

	done, err := e.uc.Complete(ctx, s.ID, logistics.ProofOfDelivery{RecipientName: "Rosa Huamán"})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentDelivered, done.Status)
	o, err = e.orders.Get(ctx, s.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, o.Status)
}

func TestCreateRoute_ConcurrentSameVehicleOneWins(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	drivers := []string{"drv-1", "drv-2"}
	errs := make([]error, len(drivers))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, drv := range drivers {
		wg.Add(1)
		go func(i int, drv string) {
			defer wg.Done()
			<-start
			_, errs[i] = e.uc.CreateRoute(ctx, logistics.CreateRouteInput{
				Name: "Ruta " + drv, VehicleID: strPtr("veh-1"), DriverID: strPtr(drv),
			})
		}(i, drv)
	}
	close(start)
	wg.Wait()

	winners, loser := 0, -1
	for i, err := range errs {
		if err == nil {
			winners++
			continue
		}
		loser = i
		var rue *domain.ResourceUnavailableError
		require.True(t, errors.As(err, &rue), err)
		assert.Equal(t, domain.EntityVehicle, rue.Resource)
		assert.Equal(t, "veh-1", rue.ID)
	}
	require.Equal(t, 1, winners)
	require.NotEqual(t, -1, loser)

	v, err := e.repos.Vehicles.GetByID(ctx, "veh-1")
	require.NoError(t, err)
	assert.False(t, v.Available)
	// el conductor de la ruta rechazada no queda bloqueado
	d, err := e.repos.Drivers.GetByID(ctx, drivers[loser])
	require.NoError(t, err)
	assert.True(t, d.Available)
}
