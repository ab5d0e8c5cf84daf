package entity

import "time"

// Roles de usuario. El rol no autoriza lógica de negocio en el core; viaja en
// el token para el middleware HTTP y para atribución en el ledger.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"  // crea dispatches y rotaciones
	RoleOperator = "operator" // recepciona en su bodega
)

// User usuario autenticado del sistema.
type User struct {
	ID           string
	Name         string
	Email        string // único
	PasswordHash string
	Role         string
	WarehouseID  string // bodega asignada (operadores)
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
