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

var _ repository.CargoLineRepository = (*CargoLineRepo)(nil)

// CargoLineRepo implementación del puerto CargoLineRepository sobre PostgreSQL.
// allocated_qty solo lo muta AllocationRepo; aquí nunca se escribe.
type CargoLineRepo struct {
	q Querier
}

// NewCargoLineRepository construye el adaptador de líneas de carga. Pasar pool o tx (Querier).
func NewCargoLineRepository(q Querier) *CargoLineRepo {
	return &CargoLineRepo{q: q}
}

const cargoLineColumns = `id, ship_id, product_id, declared_qty, received_qty, allocated_qty, unit, lot_number, status, received_at, created_at, created_by`

func scanCargoLine(row pgx.Row) (*entity.CargoLine, error) {
	var l entity.CargoLine
	err := row.Scan(
		&l.ID, &l.ShipID, &l.ProductID, &l.DeclaredQty, &l.ReceivedQty, &l.AllocatedQty,
		&l.Unit, &l.LotNumber, &l.Status, &l.ReceivedAt, &l.CreatedAt, &l.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste una nueva línea de carga declarada.
func (r *CargoLineRepo) Create(line *entity.CargoLine) error {
	query := `
		INSERT INTO cargo_lines (` + cargoLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ShipID, line.ProductID, line.DeclaredQty, line.ReceivedQty, line.AllocatedQty,
		line.Unit, line.LotNumber, line.Status, line.ReceivedAt, line.CreatedAt, line.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cargo line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea de carga por ID.
func (r *CargoLineRepo) GetByID(id string) (*entity.CargoLine, error) {
	query := `SELECT ` + cargoLineColumns + ` FROM cargo_lines WHERE id = $1`
	line, err := scanCargoLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cargo line: %w", err)
	}
	return line, nil
}

// GetForUpdate obtiene la línea y bloquea la fila (SELECT FOR UPDATE).
func (r *CargoLineRepo) GetForUpdate(id string) (*entity.CargoLine, error) {
	query := `SELECT ` + cargoLineColumns + ` FROM cargo_lines WHERE id = $1 FOR UPDATE`
	line, err := scanCargoLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cargo line for update: %w", err)
	}
	return line, nil
}

// ListByShip lista las líneas de un navío.
func (r *CargoLineRepo) ListByShip(shipID string) ([]*entity.CargoLine, error) {
	query := `SELECT ` + cargoLineColumns + ` FROM cargo_lines WHERE ship_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, shipID)
	if err != nil {
		return nil, fmt.Errorf("list cargo lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.CargoLine
	for rows.Next() {
		var l entity.CargoLine
		if err := rows.Scan(&l.ID, &l.ShipID, &l.ProductID, &l.DeclaredQty, &l.ReceivedQty, &l.AllocatedQty,
			&l.Unit, &l.LotNumber, &l.Status, &l.ReceivedAt, &l.CreatedAt, &l.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan cargo line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Update actualiza estado y cantidades de recepción. No toca allocated_qty.
func (r *CargoLineRepo) Update(line *entity.CargoLine) error {
	query := `
		UPDATE cargo_lines SET received_qty = $2, status = $3, received_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		line.ID, line.ReceivedQty, line.Status, line.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("update cargo line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatusForShip mueve todas las líneas del navío de un estado a otro.
func (r *CargoLineRepo) UpdateStatusForShip(shipID, fromStatus, toStatus string) error {
	query := `UPDATE cargo_lines SET status = $3 WHERE ship_id = $1 AND status = $2`
	_, err := r.q.Exec(context.Background(), query, shipID, fromStatus, toStatus)
	if err != nil {
		return fmt.Errorf("update cargo lines status: %w", err)
	}
	return nil
}
