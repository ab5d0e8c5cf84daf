package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación del puerto BalanceRepository sobre PostgreSQL.
// La proyección solo se escribe junto al Append del ledger (misma tx) o en un
// rebuild explícito.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de balances. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el balance proyectado para (producto, bodega). Sin fila devuelve nil.
func (r *BalanceRepo) Get(productID, warehouseID string) (*entity.Balance, error) {
	query := `
		SELECT product_id, warehouse_id, on_hand, updated_at
		FROM balances WHERE product_id = $1 AND warehouse_id = $2`
	var b entity.Balance
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&b.ProductID, &b.WarehouseID, &b.OnHand, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el balance y bloquea la fila (SELECT FOR UPDATE).
// Si no hay fila, la crea en cero primero: sin fila no hay nada que bloquear y
// la autorización de dispatches necesita el lock.
func (r *BalanceRepo) GetForUpdate(productID, warehouseID string) (*entity.Balance, error) {
	insert := `
		INSERT INTO balances (product_id, warehouse_id, on_hand, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, productID, warehouseID); err != nil {
		return nil, fmt.Errorf("ensure balance row: %w", err)
	}
	query := `
		SELECT product_id, warehouse_id, on_hand, updated_at
		FROM balances WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var b entity.Balance
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&b.ProductID, &b.WarehouseID, &b.OnHand, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return &b, nil
}

// ApplyDelta incrementa (o decrementa) el balance proyectado vía upsert.
func (r *BalanceRepo) ApplyDelta(productID, warehouseID string, delta decimal.Decimal) error {
	query := `
		INSERT INTO balances (product_id, warehouse_id, on_hand, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET on_hand = balances.on_hand + EXCLUDED.on_hand, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, productID, warehouseID, delta)
	if err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}
	return nil
}

// Set reescribe la proyección (rebuild explícito desde el ledger).
func (r *BalanceRepo) Set(balance *entity.Balance) error {
	query := `
		INSERT INTO balances (product_id, warehouse_id, on_hand, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		balance.ProductID, balance.WarehouseID, balance.OnHand, balance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// ListByWarehouse lista la proyección de una bodega.
func (r *BalanceRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Balance, error) {
	query := `
		SELECT product_id, warehouse_id, on_hand, updated_at
		FROM balances WHERE warehouse_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.ProductID, &b.WarehouseID, &b.OnHand, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
