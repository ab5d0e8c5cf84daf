package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

var _ repository.RotationRepository = (*RotationRepo)(nil)

// RotationRepo implementación del puerto RotationRepository sobre PostgreSQL.
type RotationRepo struct {
	q Querier
}

// NewRotationRepository construye el adaptador de rotaciones. Pasar pool o tx (Querier).
func NewRotationRepository(q Querier) *RotationRepo {
	return &RotationRepo{q: q}
}

const rotationColumns = `id, number, dispatch_id, carrier_id, planned_qty, delivered_qty, variance, status, departed_at, arrived_at, received_by, notes, created_at, updated_at`

func scanRotation(row pgx.Row) (*entity.Rotation, error) {
	var rot entity.Rotation
	err := row.Scan(
		&rot.ID, &rot.Number, &rot.DispatchID, &rot.CarrierID,
		&rot.PlannedQty, &rot.DeliveredQty, &rot.Variance,
		&rot.Status, &rot.DepartedAt, &rot.ArrivedAt, &rot.ReceivedBy,
		&rot.Notes, &rot.CreatedAt, &rot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rot, nil
}

// Create persiste una nueva rotación.
func (r *RotationRepo) Create(rotation *entity.Rotation) error {
	query := `
		INSERT INTO rotations (` + rotationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		rotation.ID, rotation.Number, rotation.DispatchID, rotation.CarrierID,
		rotation.PlannedQty, rotation.DeliveredQty, rotation.Variance,
		rotation.Status, rotation.DepartedAt, rotation.ArrivedAt, rotation.ReceivedBy,
		rotation.Notes, rotation.CreatedAt, rotation.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert rotation: %w", err)
	}
	return nil
}

// GetByID obtiene una rotación por ID.
func (r *RotationRepo) GetByID(id string) (*entity.Rotation, error) {
	query := `SELECT ` + rotationColumns + ` FROM rotations WHERE id = $1`
	rotation, err := scanRotation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rotation: %w", err)
	}
	return rotation, nil
}

// GetForUpdate obtiene la rotación y bloquea la fila (SELECT FOR UPDATE).
func (r *RotationRepo) GetForUpdate(id string) (*entity.Rotation, error) {
	query := `SELECT ` + rotationColumns + ` FROM rotations WHERE id = $1 FOR UPDATE`
	rotation, err := scanRotation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rotation for update: %w", err)
	}
	return rotation, nil
}

// ListByDispatch lista las rotaciones de un dispatch en orden de creación.
func (r *RotationRepo) ListByDispatch(dispatchID string) ([]*entity.Rotation, error) {
	query := `SELECT ` + rotationColumns + ` FROM rotations WHERE dispatch_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("list rotations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Rotation
	for rows.Next() {
		var rot entity.Rotation
		if err := rows.Scan(&rot.ID, &rot.Number, &rot.DispatchID, &rot.CarrierID,
			&rot.PlannedQty, &rot.DeliveredQty, &rot.Variance,
			&rot.Status, &rot.DepartedAt, &rot.ArrivedAt, &rot.ReceivedBy,
			&rot.Notes, &rot.CreatedAt, &rot.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rotation: %w", err)
		}
		list = append(list, &rot)
	}
	return list, rows.Err()
}

// Update actualiza estado, entrega y écart de una rotación.
func (r *RotationRepo) Update(rotation *entity.Rotation) error {
	query := `
		UPDATE rotations SET delivered_qty = $2, variance = $3, status = $4,
			departed_at = $5, arrived_at = $6, received_by = $7, notes = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		rotation.ID, rotation.DeliveredQty, rotation.Variance, rotation.Status,
		rotation.DepartedAt, rotation.ArrivedAt, rotation.ReceivedBy,
		rotation.Notes, rotation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update rotation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByDispatch cuenta las rotaciones de un dispatch (incluye canceladas:
// la numeración nunca se reusa).
func (r *RotationRepo) CountByDispatch(dispatchID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM rotations WHERE dispatch_id = $1`, dispatchID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rotations: %w", err)
	}
	return count, nil
}

// AllTerminal indica si todas las rotaciones del dispatch están en estado terminal.
func (r *RotationRepo) AllTerminal(dispatchID string) (bool, error) {
	query := `
		SELECT NOT EXISTS (
			SELECT 1 FROM rotations
			WHERE dispatch_id = $1 AND status NOT IN ('delivered', 'short', 'cancelled')
		)`
	var allTerminal bool
	err := r.q.QueryRow(context.Background(), query, dispatchID).Scan(&allTerminal)
	if err != nil {
		return false, fmt.Errorf("check rotations terminal: %w", err)
	}
	return allTerminal, nil
}

// SumDelivered suma las cantidades entregadas de las rotaciones del dispatch.
func (r *RotationRepo) SumDelivered(dispatchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(delivered_qty), 0)
		FROM rotations WHERE dispatch_id = $1 AND delivered_qty IS NOT NULL`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, dispatchID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum delivered: %w", err)
	}
	return sum, nil
}
