package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/cargoflow-api/internal/application/cargoflow"
	"github.com/tu-usuario/cargoflow-api/internal/application/dto"
)

// RotationHandler maneja la planificación, salida y recepción de rotaciones.
type RotationHandler struct {
	rotationUC  *cargoflow.RotationUseCase
	receptionUC *cargoflow.ReceptionUseCase
}

// NewRotationHandler construye el handler.
func NewRotationHandler(rotationUC *cargoflow.RotationUseCase, receptionUC *cargoflow.ReceptionUseCase) *RotationHandler {
	return &RotationHandler{rotationUC: rotationUC, receptionUC: receptionUC}
}

// Plan godoc
// @Summary      Planificar rotaciones de un dispatch (lote todo-o-nada)
// @Tags         rotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del dispatch"
// @Param        body  body  dto.PlanRotationsRequest  true  "rotaciones a crear"
// @Success      201   {array}  dto.RotationResponse
// @Failure      409   {object}  dto.ErrorResponse  "remanente o capacidad de camión insuficiente"
// @Router       /api/dispatches/{id}/rotations [post]
func (h *RotationHandler) Plan(c *fiber.Ctx) error {
	var in dto.PlanRotationsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]cargoflow.PlanRotationItem, 0, len(in.Rotations))
	for _, r := range in.Rotations {
		items = append(items, cargoflow.PlanRotationItem{
			CarrierID: r.CarrierID,
			Qty:       r.Qty,
			Notes:     r.Notes,
		})
	}
	rotations, err := h.rotationUC.PlanRotations(c.Context(), c.Params("id"), items)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.RotationResponse, 0, len(rotations))
	for _, r := range rotations {
		resp = append(resp, toRotationResponse(r))
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListByDispatch godoc
// @Summary      Listar rotaciones de un dispatch
// @Tags         rotations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del dispatch"
// @Success      200  {array}  dto.RotationResponse
// @Router       /api/dispatches/{id}/rotations [get]
func (h *RotationHandler) ListByDispatch(c *fiber.Ctx) error {
	rotations, err := h.rotationUC.ListRotations(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.RotationResponse, 0, len(rotations))
	for _, r := range rotations {
		resp = append(resp, toRotationResponse(r))
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Obtener rotación
// @Tags         rotations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la rotación"
// @Success      200  {object}  dto.RotationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rotations/{id} [get]
func (h *RotationHandler) GetByID(c *fiber.Ctx) error {
	rotation, err := h.rotationUC.GetRotation(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRotationResponse(rotation))
}

// Start godoc
// @Summary      Registrar salida del camión (planned -> in_transit)
// @Tags         rotations
// @Security     Bearer
// @Param        id  path  string  true  "ID de la rotación"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rotations/{id}/start [post]
func (h *RotationHandler) Start(c *fiber.Ctx) error {
	if err := h.rotationUC.StartRotation(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "rotación en tránsito"})
}

// Cancel godoc
// @Summary      Anular rotación planificada (devuelve la cantidad al dispatch)
// @Tags         rotations
// @Security     Bearer
// @Param        id  path  string  true  "ID de la rotación"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rotations/{id}/cancel [post]
func (h *RotationHandler) Cancel(c *fiber.Ctx) error {
	if err := h.rotationUC.CancelRotation(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "rotación anulada"})
}

// RecordReception godoc
// @Summary      Registrar recepción: entrega, écart y asiento en ledger
// @Tags         rotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la rotación"
// @Param        body  body  dto.RecordReceptionRequest  true  "cantidad entregada"
// @Success      200   {object}  dto.ReceptionResponse
// @Failure      409   {object}  dto.ErrorResponse  "rotación ya recibida o no in_transit"
// @Router       /api/rotations/{id}/reception [post]
func (h *RotationHandler) RecordReception(c *fiber.Ctx) error {
	var in dto.RecordReceptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.receptionUC.RecordReception(c.Context(), c.Params("id"), in.DeliveredQty, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReceptionResponse{
		Rotation:    toRotationResponse(result.Rotation),
		Variance:    result.Variance,
		VariancePct: result.VariancePct,
		Status:      result.Status,
	})
}
