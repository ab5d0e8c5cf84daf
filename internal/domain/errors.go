package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// CapacityError rechazo por capacidad: la cantidad pedida excede el remanente
// asignable de la fuente. No es una falla; el caller puede reintentar con una
// cantidad menor usando Available, el remanente real al momento del rechazo.
type CapacityError struct {
	SourceID  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacidad insuficiente en %s: pedido %s, disponible %s",
		e.SourceID, e.Requested.String(), e.Available.String())
}

// StateError transición ilegal: la operación requiere un estado distinto al actual.
type StateError struct {
	Entity  string // "dispatch", "rotation", "cargo_line", "ship"
	ID      string
	Current string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s %s en estado %q no permite la operación", e.Entity, e.ID, e.Current)
}

// DriftError divergencia entre el balance proyectado y la suma del ledger.
// Invalida la confianza en ese balance; siempre se escala, nunca se corrige en silencio.
type DriftError struct {
	ProductID   string
	WarehouseID string
	Stored      decimal.Decimal
	FromLedger  decimal.Decimal
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("balance divergente producto=%s bodega=%s: proyectado %s, ledger %s",
		e.ProductID, e.WarehouseID, e.Stored.String(), e.FromLedger.String())
}
