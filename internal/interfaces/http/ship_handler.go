package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/cargoflow-api/internal/application/cargoflow"
	"github.com/tu-usuario/cargoflow-api/internal/application/dto"
)

// ShipHandler maneja la llegada de navíos y la recepción de líneas de carga.
type ShipHandler struct {
	uc *cargoflow.IntakeUseCase
}

// NewShipHandler construye el handler.
func NewShipHandler(uc *cargoflow.IntakeUseCase) *ShipHandler {
	return &ShipHandler{uc: uc}
}

// RegisterArrival godoc
// @Summary      Registrar llegada de navío con su manifiesto
// @Tags         ships
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterArrivalRequest  true  "navío y líneas declaradas"
// @Success      201   {object}  dto.ShipResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ships [post]
func (h *ShipHandler) RegisterArrival(c *fiber.Ctx) error {
	var in dto.RegisterArrivalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := cargoflow.RegisterArrivalInput{
		Name:       in.Name,
		IMONumber:  in.IMONumber,
		OriginPort: in.OriginPort,
		ActorID:    GetUserID(c),
	}
	if in.ArrivedAt != nil {
		input.ArrivedAt = *in.ArrivedAt
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, cargoflow.DeclaredLineInput{
			ProductID:   l.ProductID,
			DeclaredQty: l.DeclaredQty,
			Unit:        l.Unit,
			LotNumber:   l.LotNumber,
		})
	}
	ship, lineIDs, err := h.uc.RegisterArrival(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ship":     toShipResponse(ship),
		"line_ids": lineIDs,
	})
}

// List godoc
// @Summary      Listar navíos
// @Tags         ships
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "expected|discharging|discharged|departed"
// @Success      200  {array}  dto.ShipResponse
// @Router       /api/ships [get]
func (h *ShipHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	ships, err := h.uc.ListShips(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ShipResponse, 0, len(ships))
	for _, s := range ships {
		items = append(items, toShipResponse(s))
	}
	return c.JSON(items)
}

// GetByID godoc
// @Summary      Obtener navío con sus líneas de carga
// @Tags         ships
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del navío"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ships/{id} [get]
func (h *ShipHandler) GetByID(c *fiber.Ctx) error {
	ship, err := h.uc.GetShip(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	lines, err := h.uc.ListLines(c.Context(), ship.ID)
	if err != nil {
		return respondError(c, err)
	}
	lineItems := make([]dto.CargoLineResponse, 0, len(lines))
	for _, l := range lines {
		lineItems = append(lineItems, toCargoLineResponse(l))
	}
	return c.JSON(fiber.Map{
		"ship":  toShipResponse(ship),
		"lines": lineItems,
	})
}

// StartDischarge godoc
// @Summary      Iniciar descarga del navío
// @Tags         ships
// @Security     Bearer
// @Param        id  path  string  true  "ID del navío"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ships/{id}/discharge [post]
func (h *ShipHandler) StartDischarge(c *fiber.Ctx) error {
	if err := h.uc.StartDischarge(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "descarga iniciada"})
}

// ConfirmReceipt godoc
// @Summary      Confirmar cantidad recibida de una línea de carga
// @Tags         ships
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la línea"
// @Param        body  body  dto.ConfirmReceiptRequest  true  "cantidad física recibida"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cargo-lines/{id}/receipt [post]
func (h *ShipHandler) ConfirmReceipt(c *fiber.Ctx) error {
	var in dto.ConfirmReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ConfirmReceipt(c.Context(), c.Params("id"), in.ReceivedQty); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "recepción confirmada", "at": time.Now().Format(time.RFC3339)})
}

// GetLine godoc
// @Summary      Obtener línea de carga
// @Tags         ships
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.CargoLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cargo-lines/{id} [get]
func (h *ShipHandler) GetLine(c *fiber.Ctx) error {
	line, err := h.uc.GetLine(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCargoLineResponse(line))
}

// Depart godoc
// @Summary      Registrar partida del navío
// @Tags         ships
// @Security     Bearer
// @Param        id  path  string  true  "ID del navío"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ships/{id}/depart [post]
func (h *ShipHandler) Depart(c *fiber.Ctx) error {
	if err := h.uc.DepartShip(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "partida registrada"})
}
