package entity

import "time"

// Product producto a granel (trigo, clinker, engrais, etc.).
type Product struct {
	ID        string
	Name      string
	Reference string // único
	Category  string
	Unit      string // "T" por defecto
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
