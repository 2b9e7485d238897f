package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/distribuidora-api/internal/application/auth"
	"github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/application/logistics"
	"github.com/jhoicas/distribuidora-api/internal/application/sales"
	"github.com/jhoicas/distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	FleetUC     *usecase.FleetUseCase
	Ledger      *inventory.Ledger
	OrderUC     *sales.OrderUseCase
	LogisticsUC *logistics.LogisticsUseCase
	JWTSecret   string
}

// Grupos de roles por área.
var (
	rolesSales     = []string{entity.RoleAdmin, entity.RoleGerente, entity.RoleVendedor}
	rolesWarehouse = []string{entity.RoleAdmin, entity.RoleGerente, entity.RoleAlmacenero}
	rolesLogistics = []string{entity.RoleAdmin, entity.RoleGerente, entity.RoleLogistica}
	rolesCatalog   = []string{entity.RoleAdmin, entity.RoleGerente}
	rolesReports   = []string{entity.RoleAdmin, entity.RoleGerente, entity.RoleVendedor, entity.RoleContador}
	rolesPayments  = rolesReports
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Warehouses
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := protected.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/", RequireRole(rolesWarehouse...), warehouseHandler.Create)
	warehouses.Patch("/:id", RequireRole(rolesWarehouse...), warehouseHandler.Update)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(rolesCatalog...), productHandler.Create)
	products.Patch("/:id", RequireRole(rolesCatalog...), productHandler.Update)

	// Customers. overdue-credit sale de las ventas y va antes que /:id.
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	orderHandler := NewOrderHandler(deps.OrderUC)
	customers := protected.Group("/customers")
	customers.Get("/overdue-credit", RequireRole(rolesReports...), orderHandler.OverdueCredit)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", RequireRole(rolesSales...), customerHandler.Create)
	customers.Patch("/:id", RequireRole(rolesSales...), customerHandler.Update)

	// Fleet: vehicles, drivers, zones
	fleetHandler := NewFleetHandler(deps.FleetUC)
	vehicles := protected.Group("/vehicles")
	vehicles.Get("/", fleetHandler.ListVehicles)
	vehicles.Get("/:id", fleetHandler.GetVehicle)
	vehicles.Post("/", RequireRole(rolesLogistics...), fleetHandler.CreateVehicle)
	vehicles.Patch("/:id", RequireRole(rolesLogistics...), fleetHandler.UpdateVehicle)

	drivers := protected.Group("/drivers")
	drivers.Get("/", fleetHandler.ListDrivers)
	drivers.Get("/:id", fleetHandler.GetDriver)
	drivers.Post("/", RequireRole(rolesLogistics...), fleetHandler.CreateDriver)
	drivers.Patch("/:id", RequireRole(rolesLogistics...), fleetHandler.UpdateDriver)

	zones := protected.Group("/zones")
	zones.Get("/", fleetHandler.ListZones)
	zones.Get("/:id", fleetHandler.GetZone)
	zones.Post("/", RequireRole(rolesLogistics...), fleetHandler.CreateZone)
	zones.Patch("/:id", RequireRole(rolesLogistics...), fleetHandler.UpdateZone)

	// Inventory: stock y kardex
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	inv := protected.Group("/inventory")
	inv.Post("/adjustments", RequireRole(rolesWarehouse...), inventoryHandler.Adjust)
	inv.Post("/transfers", RequireRole(rolesWarehouse...), inventoryHandler.Transfer)
	inv.Post("/purchases", RequireRole(rolesWarehouse...), inventoryHandler.ReceivePurchase)
	inv.Patch("/products/:id/warehouses/:warehouseId", RequireRole(rolesWarehouse...), inventoryHandler.SetDetails)
	inv.Get("/products/:id", inventoryHandler.ByProduct)
	inv.Get("/products/:id/totals", inventoryHandler.Totals)
	inv.Get("/warehouses/:id", inventoryHandler.ByWarehouse)
	inv.Get("/expiring", inventoryHandler.Expiring)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/movements", inventoryHandler.Movements)

	// Orders (ventas). Las rutas estáticas van antes que /:id.
	orders := protected.Group("/orders")
	orders.Get("/summary", RequireRole(rolesReports...), orderHandler.Summary)
	orders.Get("/number/:number", orderHandler.GetByNumber)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/", RequireRole(rolesSales...), orderHandler.Create)
	orders.Patch("/:id", RequireRole(rolesSales...), orderHandler.Update)
	orders.Post("/:id/confirm", RequireRole(rolesSales...), orderHandler.Confirm)
	orders.Post("/:id/cancel", RequireRole(rolesSales...), orderHandler.Cancel)
	orders.Post("/:id/prepare", RequireRole(rolesWarehouse...), orderHandler.Prepare)
	orders.Post("/:id/ready", RequireRole(rolesWarehouse...), orderHandler.Ready)
	orders.Get("/:id/payments", orderHandler.ListPayments)
	orders.Post("/:id/payments", RequireRole(rolesPayments...), orderHandler.RegisterPayment)

	// Shipments (envíos)
	shipmentHandler := NewShipmentHandler(deps.LogisticsUC)
	shipments := protected.Group("/shipments")
	shipments.Get("/pending-today", shipmentHandler.PendingToday)
	shipments.Get("/", shipmentHandler.List)
	shipments.Get("/:id", shipmentHandler.GetByID)
	shipments.Get("/:id/despatch.xml", shipmentHandler.DespatchAdvice)
	shipments.Post("/order/:orderId", RequireRole(rolesLogistics...), shipmentHandler.CreateForOrder)
	shipments.Post("/:id/assign", RequireRole(rolesLogistics...), shipmentHandler.Assign)
	shipments.Post("/:id/start", RequireRole(rolesLogistics...), shipmentHandler.Start)
	shipments.Post("/:id/complete", RequireRole(rolesLogistics...), shipmentHandler.Complete)
	shipments.Post("/:id/fail", RequireRole(rolesLogistics...), shipmentHandler.Fail)
	shipments.Post("/:id/reschedule", RequireRole(rolesLogistics...), shipmentHandler.Reschedule)

	// Routes (rutas de reparto)
	routeHandler := NewRouteHandler(deps.LogisticsUC)
	routes := protected.Group("/routes")
	routes.Post("/", RequireRole(rolesLogistics...), routeHandler.Create)
	routes.Post("/:id/complete", RequireRole(rolesLogistics...), routeHandler.Complete)
	routes.Get("/:id", routeHandler.GetByID)
	routes.Get("/:id/manifest.pdf", routeHandler.Manifest)

	dashboardHandler := NewDashboardHandler(deps.LogisticsUC)
	protected.Get("/logistics/dashboard", dashboardHandler.GetLogistics)
}
