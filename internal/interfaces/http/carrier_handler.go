package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/cargoflow-api/internal/application/dto"
	"github.com/tu-usuario/cargoflow-api/internal/application/usecase"
)

// CarrierHandler maneja el CRUD de transportistas.
type CarrierHandler struct {
	uc *usecase.CarrierUseCase
}

// NewCarrierHandler construye el handler.
func NewCarrierHandler(uc *usecase.CarrierUseCase) *CarrierHandler {
	return &CarrierHandler{uc: uc}
}

// Create godoc
// @Summary      Crear transportista
// @Tags         carriers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCarrierRequest  true  "nombre, licencia, capacidad del camión"
// @Success      201   {object}  dto.CarrierResponse
// @Router       /api/carriers [post]
func (h *CarrierHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCarrierRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	carrier, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(carrier)
}

// List godoc
// @Summary      Listar transportistas
// @Tags         carriers
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "solo activos"
// @Success      200  {array}  dto.CarrierResponse
// @Router       /api/carriers [get]
func (h *CarrierHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := h.uc.List(c.QueryBool("active"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// GetByID godoc
// @Summary      Obtener transportista
// @Tags         carriers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del transportista"
// @Success      200  {object}  dto.CarrierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carriers/{id} [get]
func (h *CarrierHandler) GetByID(c *fiber.Ctx) error {
	carrier, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if carrier == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transportista no encontrado"})
	}
	return c.JSON(carrier)
}

// Update godoc
// @Summary      Actualizar transportista
// @Tags         carriers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del transportista"
// @Param        body  body  dto.UpdateCarrierRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.CarrierResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carriers/{id} [put]
func (h *CarrierHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCarrierRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	carrier, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if carrier == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transportista no encontrado"})
	}
	return c.JSON(carrier)
}
