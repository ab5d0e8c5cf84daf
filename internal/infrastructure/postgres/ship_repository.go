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

var _ repository.ShipRepository = (*ShipRepo)(nil)

// ShipRepo implementación del puerto ShipRepository sobre PostgreSQL (usable con pool o tx).
type ShipRepo struct {
	q Querier
}

// NewShipRepository construye el adaptador de navíos. Pasar pool o tx (Querier).
func NewShipRepository(q Querier) *ShipRepo {
	return &ShipRepo{q: q}
}

// Create persiste un nuevo navío.
func (r *ShipRepo) Create(ship *entity.Ship) error {
	query := `
		INSERT INTO ships (id, name, imo_number, origin_port, status, arrived_at, departed_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		ship.ID, ship.Name, ship.IMONumber, ship.OriginPort, ship.Status,
		ship.ArrivedAt, ship.DepartedAt, ship.CreatedAt, ship.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ship: %w", err)
	}
	return nil
}

// GetByID obtiene un navío por ID.
func (r *ShipRepo) GetByID(id string) (*entity.Ship, error) {
	query := `
		SELECT id, name, imo_number, origin_port, status, arrived_at, departed_at, created_at, created_by
		FROM ships WHERE id = $1`
	var s entity.Ship
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &s.IMONumber, &s.OriginPort, &s.Status,
		&s.ArrivedAt, &s.DepartedAt, &s.CreatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ship: %w", err)
	}
	return &s, nil
}

// List lista navíos, opcionalmente filtrados por estado, con paginación.
func (r *ShipRepo) List(status string, limit, offset int) ([]*entity.Ship, error) {
	query := `
		SELECT id, name, imo_number, origin_port, status, arrived_at, departed_at, created_at, created_by
		FROM ships WHERE ($1 = '' OR status = $1)
		ORDER BY arrived_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ships: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ship
	for rows.Next() {
		var s entity.Ship
		if err := rows.Scan(&s.ID, &s.Name, &s.IMONumber, &s.OriginPort, &s.Status,
			&s.ArrivedAt, &s.DepartedAt, &s.CreatedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan ship: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update actualiza estado y fechas de un navío.
func (r *ShipRepo) Update(ship *entity.Ship) error {
	query := `
		UPDATE ships SET status = $2, departed_at = $3
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, ship.ID, ship.Status, ship.DepartedAt)
	if err != nil {
		return fmt.Errorf("update ship: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
