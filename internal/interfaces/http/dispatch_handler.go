package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/cargoflow-api/internal/application/cargoflow"
	"github.com/tu-usuario/cargoflow-api/internal/application/dto"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// DispatchHandler maneja el ciclo de vida de dispatches.
type DispatchHandler struct {
	uc *cargoflow.DispatchUseCase
}

// NewDispatchHandler construye el handler.
func NewDispatchHandler(uc *cargoflow.DispatchUseCase) *DispatchHandler {
	return &DispatchHandler{uc: uc}
}

// Create godoc
// @Summary      Crear dispatch (reserva atómica contra la fuente)
// @Tags         dispatches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDispatchRequest  true  "fuente, destino y cantidad"
// @Success      201   {object}  dto.DispatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "capacidad insuficiente: incluye el disponible real"
// @Router       /api/dispatches [post]
func (h *DispatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	dispatch, err := h.uc.CreateDispatch(c.Context(), cargoflow.CreateDispatchInput{
		CargoLineID:            in.CargoLineID,
		SourceWarehouseID:      in.SourceWarehouseID,
		ProductID:              in.ProductID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		DestinationClientID:    in.DestinationClientID,
		Qty:                    in.Qty,
		ManagerID:              GetUserID(c),
		Notes:                  in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDispatchResponse(dispatch))
}

// List godoc
// @Summary      Listar dispatches
// @Tags         dispatches
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "planned|in_progress|complete|cancelled"
// @Param        warehouse_id  query  string  false  "filtra por bodega origen o destino"
// @Success      200  {array}  dto.DispatchResponse
// @Router       /api/dispatches [get]
func (h *DispatchHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListDispatches(c.Context(), repository.DispatchFilter{
		Status:      c.Query("status"),
		WarehouseID: c.Query("warehouse_id"),
		CargoLineID: c.Query("cargo_line_id"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.DispatchResponse, 0, len(list))
	for _, d := range list {
		items = append(items, toDispatchResponse(d))
	}
	return c.JSON(items)
}

// GetByID godoc
// @Summary      Obtener dispatch
// @Tags         dispatches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del dispatch"
// @Success      200  {object}  dto.DispatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dispatches/{id} [get]
func (h *DispatchHandler) GetByID(c *fiber.Ctx) error {
	dispatch, err := h.uc.GetDispatch(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDispatchResponse(dispatch))
}

// Cancel godoc
// @Summary      Anular dispatch (solo planned y sin rotaciones)
// @Tags         dispatches
// @Security     Bearer
// @Param        id  path  string  true  "ID del dispatch"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/dispatches/{id}/cancel [post]
func (h *DispatchHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.CancelDispatch(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "dispatch anulado"})
}

// ForceClose godoc
// @Summary      Cerrar dispatch corto, registrando el faltante
// @Tags         dispatches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del dispatch"
// @Success      200  {object}  dto.DispatchResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/dispatches/{id}/force-close [post]
func (h *DispatchHandler) ForceClose(c *fiber.Ctx) error {
	dispatch, err := h.uc.ForceClose(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDispatchResponse(dispatch))
}
