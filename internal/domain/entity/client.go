package entity

import "time"

// Client cliente destinatario de entregas directas.
type Client struct {
	ID        string
	Name      string
	TaxID     string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
