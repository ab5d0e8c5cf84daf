package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/cargoflow-api/internal/application/cargoflow"
	"github.com/tu-usuario/cargoflow-api/internal/application/dto"
)

// StockHandler maneja consultas de stock, movimientos, ajustes y reconciliación.
type StockHandler struct {
	balanceUC   *cargoflow.BalanceUseCase
	receptionUC *cargoflow.ReceptionUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(balanceUC *cargoflow.BalanceUseCase, receptionUC *cargoflow.ReceptionUseCase) *StockHandler {
	return &StockHandler{balanceUC: balanceUC, receptionUC: receptionUC}
}

// GetBalance godoc
// @Summary      Stock proyectado de un producto en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true  "ID de la bodega"
// @Param        product_id    query  string  true  "ID del producto"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/stock/{warehouse_id}/balance [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.balanceUC.CurrentBalance(c.Context(), c.Query("product_id"), c.Params("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

// ListBalances godoc
// @Summary      Stock proyectado de todos los productos de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "ID de la bodega"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/stock/{warehouse_id}/balances [get]
func (h *StockHandler) ListBalances(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	balances, err := h.balanceUC.WarehouseBalances(c.Context(), c.Params("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, toBalanceResponse(b))
	}
	return c.JSON(items)
}

// ListMovements godoc
// @Summary      Asientos del ledger de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "ID de la bodega"
// @Param        from          query  string  false  "RFC3339"
// @Param        to            query  string  false  "RFC3339"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/stock/{warehouse_id}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, to, err := parseTimeRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	entries, err := h.balanceUC.WarehouseMovements(c.Context(), c.Params("warehouse_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toLedgerEntryResponse(e))
	}
	return c.JSON(items)
}

// ListProductMovements godoc
// @Summary      Asientos del ledger de un producto en todas las bodegas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/products/{product_id}/movements [get]
func (h *StockHandler) ListProductMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, to, err := parseTimeRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	entries, err := h.balanceUC.ProductMovements(c.Context(), c.Params("product_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toLedgerEntryResponse(e))
	}
	return c.JSON(items)
}

// RecordAdjustment godoc
// @Summary      Registrar ajuste manual de stock (merma, conteo, corrección)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "cantidad firmada y motivo"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) RecordAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.receptionUC.RecordAdjustment(c.Context(), cargoflow.AdjustmentInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Qty:         in.Qty,
		Reason:      in.Reason,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLedgerEntryResponse(entry))
}

// Reconcile godoc
// @Summary      Verificar que el balance proyectado coincide con el ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true  "ID de la bodega"
// @Param        product_id    query  string  true  "ID del producto"
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  dto.ErrorResponse  "divergencia detectada"
// @Router       /api/stock/{warehouse_id}/reconcile [post]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	if err := h.balanceUC.Reconcile(c.Context(), c.Query("product_id"), c.Params("warehouse_id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "balance consistente con el ledger"})
}

// RebuildBalance godoc
// @Summary      Reconstruir el balance proyectado desde el ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true  "ID de la bodega"
// @Param        product_id    query  string  true  "ID del producto"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/stock/{warehouse_id}/rebuild [post]
func (h *StockHandler) RebuildBalance(c *fiber.Ctx) error {
	balance, err := h.balanceUC.RebuildBalance(c.Context(), c.Query("product_id"), c.Params("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

func parseTimeRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
