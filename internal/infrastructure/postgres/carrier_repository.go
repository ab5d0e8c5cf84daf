package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

var _ repository.CarrierRepository = (*CarrierRepo)(nil)

// CarrierRepo implementación del puerto CarrierRepository sobre PostgreSQL (usable con pool o tx).
type CarrierRepo struct {
	q Querier
}

// NewCarrierRepository construye el adaptador de transportistas. Pasar pool o tx (Querier).
func NewCarrierRepository(q Querier) *CarrierRepo {
	return &CarrierRepo{q: q}
}

// Create persiste un nuevo transportista.
func (r *CarrierRepo) Create(carrier *entity.Carrier) error {
	query := `
		INSERT INTO carriers (id, name, phone, license_number, truck_number, truck_capacity, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		carrier.ID, carrier.Name, carrier.Phone, carrier.LicenseNumber,
		carrier.TruckNumber, carrier.TruckCapacity, carrier.Active,
		carrier.CreatedAt, carrier.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert carrier: %w", err)
	}
	return nil
}

// GetByID obtiene un transportista por ID.
func (r *CarrierRepo) GetByID(id string) (*entity.Carrier, error) {
	query := `
		SELECT id, name, phone, license_number, truck_number, truck_capacity, active, created_at, updated_at
		FROM carriers WHERE id = $1`
	var c entity.Carrier
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.LicenseNumber, &c.TruckNumber,
		&c.TruckCapacity, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get carrier: %w", err)
	}
	return &c, nil
}

// List lista transportistas, opcionalmente solo activos.
func (r *CarrierRepo) List(onlyActive bool, limit, offset int) ([]*entity.Carrier, error) {
	query := `
		SELECT id, name, phone, license_number, truck_number, truck_capacity, active, created_at, updated_at
		FROM carriers WHERE (NOT $1 OR active)
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, onlyActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list carriers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Carrier
	for rows.Next() {
		var c entity.Carrier
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.LicenseNumber, &c.TruckNumber,
			&c.TruckCapacity, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan carrier: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza un transportista existente.
func (r *CarrierRepo) Update(carrier *entity.Carrier) error {
	query := `
		UPDATE carriers SET name = $2, phone = $3, truck_number = $4, truck_capacity = $5, active = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		carrier.ID, carrier.Name, carrier.Phone, carrier.TruckNumber,
		carrier.TruckCapacity, carrier.Active, carrier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update carrier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
