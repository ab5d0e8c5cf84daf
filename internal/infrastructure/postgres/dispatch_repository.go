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

var _ repository.DispatchRepository = (*DispatchRepo)(nil)

// DispatchRepo implementación del puerto DispatchRepository sobre PostgreSQL.
// allocated_to_rotations solo lo muta AllocationRepo; aquí nunca se escribe.
type DispatchRepo struct {
	q Querier
}

// NewDispatchRepository construye el adaptador de dispatches. Pasar pool o tx (Querier).
func NewDispatchRepository(q Querier) *DispatchRepo {
	return &DispatchRepo{q: q}
}

const dispatchColumns = `id, number, cargo_line_id, source_warehouse_id, destination_warehouse_id, destination_client_id, product_id, total_qty, allocated_to_rotations, shortfall_qty, status, manager_id, notes, completed_at, created_at, updated_at`

func scanDispatch(row pgx.Row) (*entity.Dispatch, error) {
	var d entity.Dispatch
	err := row.Scan(
		&d.ID, &d.Number, &d.CargoLineID, &d.SourceWarehouseID,
		&d.DestinationWarehouseID, &d.DestinationClientID, &d.ProductID,
		&d.TotalQty, &d.AllocatedToRotations, &d.ShortfallQty,
		&d.Status, &d.ManagerID, &d.Notes, &d.CompletedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste un nuevo dispatch.
func (r *DispatchRepo) Create(dispatch *entity.Dispatch) error {
	query := `
		INSERT INTO dispatches (` + dispatchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		dispatch.ID, dispatch.Number, dispatch.CargoLineID, dispatch.SourceWarehouseID,
		dispatch.DestinationWarehouseID, dispatch.DestinationClientID, dispatch.ProductID,
		dispatch.TotalQty, dispatch.AllocatedToRotations, dispatch.ShortfallQty,
		dispatch.Status, dispatch.ManagerID, dispatch.Notes, dispatch.CompletedAt,
		dispatch.CreatedAt, dispatch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dispatch: %w", err)
	}
	return nil
}

// GetByID obtiene un dispatch por ID.
func (r *DispatchRepo) GetByID(id string) (*entity.Dispatch, error) {
	query := `SELECT ` + dispatchColumns + ` FROM dispatches WHERE id = $1`
	dispatch, err := scanDispatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	return dispatch, nil
}

// GetForUpdate obtiene el dispatch y bloquea la fila (SELECT FOR UPDATE).
func (r *DispatchRepo) GetForUpdate(id string) (*entity.Dispatch, error) {
	query := `SELECT ` + dispatchColumns + ` FROM dispatches WHERE id = $1 FOR UPDATE`
	dispatch, err := scanDispatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dispatch for update: %w", err)
	}
	return dispatch, nil
}

// List lista dispatches aplicando los filtros dados.
func (r *DispatchRepo) List(filter repository.DispatchFilter) ([]*entity.Dispatch, error) {
	query := `
		SELECT ` + dispatchColumns + `
		FROM dispatches
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR source_warehouse_id = $2 OR destination_warehouse_id = $2)
		  AND ($3 = '' OR cargo_line_id = $3)
		  AND ($4::timestamptz IS NULL OR created_at >= $4)
		  AND ($5::timestamptz IS NULL OR created_at < $5)
		ORDER BY created_at DESC LIMIT $6 OFFSET $7`
	rows, err := r.q.Query(context.Background(), query,
		filter.Status, filter.WarehouseID, filter.CargoLineID,
		filter.From, filter.To, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list dispatches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Dispatch
	for rows.Next() {
		var d entity.Dispatch
		if err := rows.Scan(&d.ID, &d.Number, &d.CargoLineID, &d.SourceWarehouseID,
			&d.DestinationWarehouseID, &d.DestinationClientID, &d.ProductID,
			&d.TotalQty, &d.AllocatedToRotations, &d.ShortfallQty,
			&d.Status, &d.ManagerID, &d.Notes, &d.CompletedAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Update actualiza estado, faltante y fechas. No toca allocated_to_rotations.
func (r *DispatchRepo) Update(dispatch *entity.Dispatch) error {
	query := `
		UPDATE dispatches SET status = $2, shortfall_qty = $3, completed_at = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		dispatch.ID, dispatch.Status, dispatch.ShortfallQty, dispatch.CompletedAt,
		dispatch.Notes, dispatch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update dispatch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumOpenFromWarehouse suma total_qty de dispatches no terminales que toman
// stock de la bodega para el producto dado.
func (r *DispatchRepo) SumOpenFromWarehouse(warehouseID, productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_qty), 0)
		FROM dispatches
		WHERE source_warehouse_id = $1 AND product_id = $2
		  AND status IN ('planned', 'in_progress')`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum open dispatches: %w", err)
	}
	return sum, nil
}

// AllClosedForCargoLine indica si todos los dispatches de la línea están en
// estado terminal.
func (r *DispatchRepo) AllClosedForCargoLine(cargoLineID string) (bool, error) {
	query := `
		SELECT NOT EXISTS (
			SELECT 1 FROM dispatches
			WHERE cargo_line_id = $1 AND status NOT IN ('complete', 'cancelled')
		)`
	var allClosed bool
	err := r.q.QueryRow(context.Background(), query, cargoLineID).Scan(&allClosed)
	if err != nil {
		return false, fmt.Errorf("check dispatches closed: %w", err)
	}
	return allClosed, nil
}
