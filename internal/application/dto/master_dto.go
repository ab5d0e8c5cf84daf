package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name      string `json:"name" validate:"required"`
	Reference string `json:"reference" validate:"required"`
	Category  string `json:"category,omitempty"`
	Unit      string `json:"unit,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos nil no se tocan.
type UpdateProductRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// ProductResponse representación pública de un producto.
type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Reference string    `json:"reference"`
	Category  string    `json:"category,omitempty"`
	Unit      string    `json:"unit"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name     string          `json:"name" validate:"required"`
	Address  string          `json:"address,omitempty"`
	Capacity decimal.Decimal `json:"capacity,omitempty"`
}

// UpdateWarehouseRequest body para PUT /api/warehouses/:id.
type UpdateWarehouseRequest struct {
	Name     *string          `json:"name,omitempty"`
	Address  *string          `json:"address,omitempty"`
	Capacity *decimal.Decimal `json:"capacity,omitempty"`
	Active   *bool            `json:"active,omitempty"`
}

// WarehouseResponse representación pública de una bodega.
type WarehouseResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Address   string          `json:"address,omitempty"`
	Capacity  decimal.Decimal `json:"capacity"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	TaxID   string `json:"tax_id,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// UpdateClientRequest body para PUT /api/clients/:id.
type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	TaxID   *string `json:"tax_id,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// ClientResponse representación pública de un cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCarrierRequest body para POST /api/carriers.
type CreateCarrierRequest struct {
	Name          string          `json:"name" validate:"required"`
	Phone         string          `json:"phone,omitempty"`
	LicenseNumber string          `json:"license_number" validate:"required"`
	TruckNumber   string          `json:"truck_number,omitempty"`
	TruckCapacity decimal.Decimal `json:"truck_capacity,omitempty"`
}

// UpdateCarrierRequest body para PUT /api/carriers/:id.
type UpdateCarrierRequest struct {
	Name          *string          `json:"name,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	TruckNumber   *string          `json:"truck_number,omitempty"`
	TruckCapacity *decimal.Decimal `json:"truck_capacity,omitempty"`
	Active        *bool            `json:"active,omitempty"`
}

// CarrierResponse representación pública de un transportista.
type CarrierResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone,omitempty"`
	LicenseNumber string          `json:"license_number"`
	TruckNumber   string          `json:"truck_number,omitempty"`
	TruckCapacity decimal.Decimal `json:"truck_capacity"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
