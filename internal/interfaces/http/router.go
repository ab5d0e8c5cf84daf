package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/cargoflow-api/internal/application/auth"
	"github.com/tu-usuario/cargoflow-api/internal/application/cargoflow"
	"github.com/tu-usuario/cargoflow-api/internal/application/usecase"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	IntakeUC    *cargoflow.IntakeUseCase
	DispatchUC  *cargoflow.DispatchUseCase
	RotationUC  *cargoflow.RotationUseCase
	ReceptionUC *cargoflow.ReceptionUseCase
	BalanceUC   *cargoflow.BalanceUseCase
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ClientUC    *usecase.ClientUseCase
	CarrierUC   *usecase.CarrierUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	manager := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Ships y líneas de carga (protegido)
	shipHandler := NewShipHandler(deps.IntakeUC)
	ships := protected.Group("/ships")
	ships.Post("/", manager, shipHandler.RegisterArrival)
	ships.Get("/", shipHandler.List)
	ships.Get("/:id", shipHandler.GetByID)
	ships.Post("/:id/discharge", shipHandler.StartDischarge)
	ships.Post("/:id/depart", shipHandler.Depart)

	cargoLines := protected.Group("/cargo-lines")
	cargoLines.Get("/:id", shipHandler.GetLine)
	cargoLines.Post("/:id/receipt", shipHandler.ConfirmReceipt)

	// Dispatches y rotaciones (protegido; creación solo manager/admin)
	dispatchHandler := NewDispatchHandler(deps.DispatchUC)
	rotationHandler := NewRotationHandler(deps.RotationUC, deps.ReceptionUC)
	dispatches := protected.Group("/dispatches")
	dispatches.Post("/", manager, dispatchHandler.Create)
	dispatches.Get("/", dispatchHandler.List)
	dispatches.Get("/:id", dispatchHandler.GetByID)
	dispatches.Post("/:id/cancel", manager, dispatchHandler.Cancel)
	dispatches.Post("/:id/force-close", manager, dispatchHandler.ForceClose)
	dispatches.Post("/:id/rotations", manager, rotationHandler.Plan)
	dispatches.Get("/:id/rotations", rotationHandler.ListByDispatch)

	rotations := protected.Group("/rotations")
	rotations.Get("/:id", rotationHandler.GetByID)
	rotations.Post("/:id/start", rotationHandler.Start)
	rotations.Post("/:id/cancel", manager, rotationHandler.Cancel)
	rotations.Post("/:id/reception", rotationHandler.RecordReception)

	// Stock: balances, movimientos, ajustes, reconciliación (protegido)
	stockHandler := NewStockHandler(deps.BalanceUC, deps.ReceptionUC)
	stock := protected.Group("/stock")
	stock.Post("/adjustments", manager, stockHandler.RecordAdjustment)
	stock.Get("/:warehouse_id/balance", stockHandler.GetBalance)
	stock.Get("/:warehouse_id/balances", stockHandler.ListBalances)
	stock.Get("/:warehouse_id/movements", stockHandler.ListMovements)
	stock.Post("/:warehouse_id/reconcile", manager, stockHandler.Reconcile)
	stock.Post("/:warehouse_id/rebuild", RequireRole(entity.RoleAdmin), stockHandler.RebuildBalance)

	// Master data (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", manager, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", manager, productHandler.Update)
	products.Get("/:product_id/movements", stockHandler.ListProductMovements)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", manager, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", manager, warehouseHandler.Update)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", manager, clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", manager, clientHandler.Update)

	carriers := protected.Group("/carriers")
	carrierHandler := NewCarrierHandler(deps.CarrierUC)
	carriers.Post("/", manager, carrierHandler.Create)
	carriers.Get("/", carrierHandler.List)
	carriers.Get("/:id", carrierHandler.GetByID)
	carriers.Put("/:id", manager, carrierHandler.Update)
}
