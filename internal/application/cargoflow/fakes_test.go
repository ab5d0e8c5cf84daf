package cargoflow_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store en memoria para los tests de los casos de uso
//
// Emula las garantías que los adaptadores reales obtienen de PostgreSQL:
//   - el TxRunner serializa los callbacks y revierte el store si fallan
//   - TryReserve es un descuento condicional atómico sobre la fila fuente
//   - el ledger rechaza referencias duplicadas
// Los repos guardan y devuelven copias; una entidad almacenada nunca se muta.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu         sync.Mutex
	ships      map[string]*entity.Ship
	lines      map[string]*entity.CargoLine
	dispatches map[string]*entity.Dispatch
	rotations  map[string]*entity.Rotation
	ledger     []*entity.LedgerEntry
	refs       map[string]bool
	balances   map[string]*entity.Balance

	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	clients    map[string]*entity.Client
	carriers   map[string]*entity.Carrier
}

func newMemStore() *memStore {
	return &memStore{
		ships:      map[string]*entity.Ship{},
		lines:      map[string]*entity.CargoLine{},
		dispatches: map[string]*entity.Dispatch{},
		rotations:  map[string]*entity.Rotation{},
		refs:       map[string]bool{},
		balances:   map[string]*entity.Balance{},
		products:   map[string]*entity.Product{},
		warehouses: map[string]*entity.Warehouse{},
		clients:    map[string]*entity.Client{},
		carriers:   map[string]*entity.Carrier{},
	}
}

func balanceKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

type storeSnapshot struct {
	ships      map[string]*entity.Ship
	lines      map[string]*entity.CargoLine
	dispatches map[string]*entity.Dispatch
	rotations  map[string]*entity.Rotation
	ledger     []*entity.LedgerEntry
	refs       map[string]bool
	balances   map[string]*entity.Balance
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() storeSnapshot {
	return storeSnapshot{
		ships:      cloneMap(s.ships),
		lines:      cloneMap(s.lines),
		dispatches: cloneMap(s.dispatches),
		rotations:  cloneMap(s.rotations),
		ledger:     append([]*entity.LedgerEntry(nil), s.ledger...),
		refs:       cloneMap(s.refs),
		balances:   cloneMap(s.balances),
	}
}

func (s *memStore) restore(snap storeSnapshot) {
	s.ships = snap.ships
	s.lines = snap.lines
	s.dispatches = snap.dispatches
	s.rotations = snap.rotations
	s.ledger = snap.ledger
	s.refs = snap.refs
	s.balances = snap.balances
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner falso: serializa los callbacks con el mutex del store y revierte
// todo el estado si el callback retorna error (rollback).
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	lineRepo repository.CargoLineRepository,
	dispatchRepo repository.DispatchRepository,
	rotationRepo repository.RotationRepository,
	ledgerRepo repository.LedgerRepository,
	balanceRepo repository.BalanceRepository,
	allocRepo repository.AllocationRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap := r.store.snapshot()
	err := fn(
		&fakeCargoLineRepo{store: r.store},
		&fakeDispatchRepo{store: r.store},
		&fakeRotationRepo{store: r.store},
		&fakeLedgerRepo{store: r.store},
		&fakeBalanceRepo{store: r.store},
		&fakeAllocationRepo{store: r.store},
	)
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

func (r *fakeTxRunner) RunIntake(ctx context.Context, fn func(
	shipRepo repository.ShipRepository,
	lineRepo repository.CargoLineRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap := r.store.snapshot()
	err := fn(
		&fakeShipRepo{store: r.store},
		&fakeCargoLineRepo{store: r.store},
	)
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos del motor
// ──────────────────────────────────────────────────────────────────────────────

type fakeShipRepo struct{ store *memStore }

func (r *fakeShipRepo) Create(ship *entity.Ship) error {
	cp := *ship
	r.store.ships[ship.ID] = &cp
	return nil
}

func (r *fakeShipRepo) GetByID(id string) (*entity.Ship, error) {
	ship, ok := r.store.ships[id]
	if !ok {
		return nil, nil
	}
	cp := *ship
	return &cp, nil
}

func (r *fakeShipRepo) List(status string, limit, offset int) ([]*entity.Ship, error) {
	var out []*entity.Ship
	for _, ship := range r.store.ships {
		if status != "" && ship.Status != status {
			continue
		}
		cp := *ship
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeShipRepo) Update(ship *entity.Ship) error {
	if _, ok := r.store.ships[ship.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *ship
	r.store.ships[ship.ID] = &cp
	return nil
}

type fakeCargoLineRepo struct{ store *memStore }

func (r *fakeCargoLineRepo) Create(line *entity.CargoLine) error {
	cp := *line
	r.store.lines[line.ID] = &cp
	return nil
}

func (r *fakeCargoLineRepo) GetByID(id string) (*entity.CargoLine, error) {
	line, ok := r.store.lines[id]
	if !ok {
		return nil, nil
	}
	cp := *line
	return &cp, nil
}

func (r *fakeCargoLineRepo) GetForUpdate(id string) (*entity.CargoLine, error) {
	return r.GetByID(id)
}

func (r *fakeCargoLineRepo) ListByShip(shipID string) ([]*entity.CargoLine, error) {
	var out []*entity.CargoLine
	for _, line := range r.store.lines {
		if line.ShipID == shipID {
			cp := *line
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Update replica al adaptador real: nunca toca AllocatedQty, eso es territorio
// exclusivo del AllocationRepository.
func (r *fakeCargoLineRepo) Update(line *entity.CargoLine) error {
	stored, ok := r.store.lines[line.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *line
	cp.AllocatedQty = stored.AllocatedQty
	r.store.lines[line.ID] = &cp
	return nil
}

func (r *fakeCargoLineRepo) UpdateStatusForShip(shipID, fromStatus, toStatus string) error {
	for id, line := range r.store.lines {
		if line.ShipID == shipID && line.Status == fromStatus {
			cp := *line
			cp.Status = toStatus
			r.store.lines[id] = &cp
		}
	}
	return nil
}

type fakeDispatchRepo struct{ store *memStore }

func (r *fakeDispatchRepo) Create(dispatch *entity.Dispatch) error {
	cp := *dispatch
	r.store.dispatches[dispatch.ID] = &cp
	return nil
}

func (r *fakeDispatchRepo) GetByID(id string) (*entity.Dispatch, error) {
	dispatch, ok := r.store.dispatches[id]
	if !ok {
		return nil, nil
	}
	cp := *dispatch
	return &cp, nil
}

func (r *fakeDispatchRepo) GetForUpdate(id string) (*entity.Dispatch, error) {
	return r.GetByID(id)
}

func (r *fakeDispatchRepo) List(filter repository.DispatchFilter) ([]*entity.Dispatch, error) {
	var out []*entity.Dispatch
	for _, dispatch := range r.store.dispatches {
		if filter.Status != "" && dispatch.Status != filter.Status {
			continue
		}
		if filter.CargoLineID != "" && dispatch.CargoLineID != filter.CargoLineID {
			continue
		}
		cp := *dispatch
		out = append(out, &cp)
	}
	return out, nil
}

// Update replica al adaptador real: AllocatedToRotations solo lo muta el
// AllocationRepository.
func (r *fakeDispatchRepo) Update(dispatch *entity.Dispatch) error {
	stored, ok := r.store.dispatches[dispatch.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *dispatch
	cp.AllocatedToRotations = stored.AllocatedToRotations
	r.store.dispatches[dispatch.ID] = &cp
	return nil
}

func (r *fakeDispatchRepo) SumOpenFromWarehouse(warehouseID, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, d := range r.store.dispatches {
		if d.SourceWarehouseID != warehouseID || d.ProductID != productID {
			continue
		}
		if d.Status == entity.DispatchStatusPlanned || d.Status == entity.DispatchStatusInProgress {
			total = total.Add(d.TotalQty)
		}
	}
	return total, nil
}

func (r *fakeDispatchRepo) AllClosedForCargoLine(cargoLineID string) (bool, error) {
	for _, d := range r.store.dispatches {
		if d.CargoLineID != cargoLineID {
			continue
		}
		if d.Status != entity.DispatchStatusComplete && d.Status != entity.DispatchStatusCancelled {
			return false, nil
		}
	}
	return true, nil
}

type fakeRotationRepo struct{ store *memStore }

func (r *fakeRotationRepo) Create(rotation *entity.Rotation) error {
	cp := *rotation
	r.store.rotations[rotation.ID] = &cp
	return nil
}

func (r *fakeRotationRepo) GetByID(id string) (*entity.Rotation, error) {
	rotation, ok := r.store.rotations[id]
	if !ok {
		return nil, nil
	}
	cp := *rotation
	return &cp, nil
}

func (r *fakeRotationRepo) GetForUpdate(id string) (*entity.Rotation, error) {
	return r.GetByID(id)
}

func (r *fakeRotationRepo) ListByDispatch(dispatchID string) ([]*entity.Rotation, error) {
	var out []*entity.Rotation
	for _, rotation := range r.store.rotations {
		if rotation.DispatchID == dispatchID {
			cp := *rotation
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRotationRepo) Update(rotation *entity.Rotation) error {
	if _, ok := r.store.rotations[rotation.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *rotation
	r.store.rotations[rotation.ID] = &cp
	return nil
}

// CountByDispatch cuenta todas las rotaciones, anuladas incluidas: los números
// de rotación nunca se reutilizan.
func (r *fakeRotationRepo) CountByDispatch(dispatchID string) (int, error) {
	count := 0
	for _, rotation := range r.store.rotations {
		if rotation.DispatchID == dispatchID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRotationRepo) AllTerminal(dispatchID string) (bool, error) {
	for _, rotation := range r.store.rotations {
		if rotation.DispatchID == dispatchID && !rotation.Terminal() {
			return false, nil
		}
	}
	return true, nil
}

func (r *fakeRotationRepo) SumDelivered(dispatchID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rotation := range r.store.rotations {
		if rotation.DispatchID == dispatchID && rotation.DeliveredQty != nil {
			total = total.Add(*rotation.DeliveredQty)
		}
	}
	return total, nil
}

type fakeLedgerRepo struct{ store *memStore }

// Append rechaza referencias duplicadas, igual que el índice único de la tabla.
func (r *fakeLedgerRepo) Append(entry *entity.LedgerEntry) error {
	if r.store.refs[entry.Reference] {
		return domain.ErrDuplicate
	}
	cp := *entry
	r.store.ledger = append(r.store.ledger, &cp)
	r.store.refs[entry.Reference] = true
	return nil
}

func (r *fakeLedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	for _, e := range r.store.ledger {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) Sum(productID, warehouseID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.store.ledger {
		if e.ProductID == productID && e.WarehouseID == warehouseID {
			total = total.Add(e.Qty)
		}
	}
	return total, nil
}

func (r *fakeLedgerRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.store.ledger {
		if e.WarehouseID == warehouseID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.store.ledger {
		if e.ProductID == productID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeBalanceRepo struct{ store *memStore }

func (r *fakeBalanceRepo) Get(productID, warehouseID string) (*entity.Balance, error) {
	b, ok := r.store.balances[balanceKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

// GetForUpdate asegura la fila (cero si no existe), igual que el adaptador real.
func (r *fakeBalanceRepo) GetForUpdate(productID, warehouseID string) (*entity.Balance, error) {
	key := balanceKey(productID, warehouseID)
	b, ok := r.store.balances[key]
	if !ok {
		b = &entity.Balance{ProductID: productID, WarehouseID: warehouseID, OnHand: decimal.Zero}
		r.store.balances[key] = b
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBalanceRepo) ApplyDelta(productID, warehouseID string, delta decimal.Decimal) error {
	key := balanceKey(productID, warehouseID)
	b, ok := r.store.balances[key]
	if !ok {
		b = &entity.Balance{ProductID: productID, WarehouseID: warehouseID, OnHand: decimal.Zero}
	}
	cp := *b
	cp.OnHand = cp.OnHand.Add(delta)
	cp.UpdatedAt = time.Now()
	r.store.balances[key] = &cp
	return nil
}

func (r *fakeBalanceRepo) Set(balance *entity.Balance) error {
	cp := *balance
	r.store.balances[balanceKey(balance.ProductID, balance.WarehouseID)] = &cp
	return nil
}

func (r *fakeBalanceRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Balance, error) {
	var out []*entity.Balance
	for _, b := range r.store.balances {
		if b.WarehouseID == warehouseID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAllocationRepo struct{ store *memStore }

// TryReserve descuento condicional atómico, réplica del UPDATE del adaptador:
// falla (sin error) si el estado no es asignable o el remanente no alcanza.
func (r *fakeAllocationRepo) TryReserve(source repository.AllocationSource, sourceID string, qty decimal.Decimal) (bool, error) {
	switch source {
	case repository.SourceCargoLine:
		line, ok := r.store.lines[sourceID]
		if !ok {
			return false, nil
		}
		if line.Status != entity.CargoLineStatusAvailable || line.Remaining().LessThan(qty) {
			return false, nil
		}
		cp := *line
		cp.AllocatedQty = cp.AllocatedQty.Add(qty)
		r.store.lines[sourceID] = &cp
		return true, nil
	case repository.SourceDispatch:
		dispatch, ok := r.store.dispatches[sourceID]
		if !ok {
			return false, nil
		}
		if dispatch.Status != entity.DispatchStatusPlanned && dispatch.Status != entity.DispatchStatusInProgress {
			return false, nil
		}
		if dispatch.Remaining().LessThan(qty) {
			return false, nil
		}
		cp := *dispatch
		cp.AllocatedToRotations = cp.AllocatedToRotations.Add(qty)
		r.store.dispatches[sourceID] = &cp
		return true, nil
	}
	return false, domain.ErrInvalidInput
}

func (r *fakeAllocationRepo) Remaining(source repository.AllocationSource, sourceID string) (decimal.Decimal, error) {
	switch source {
	case repository.SourceCargoLine:
		line, ok := r.store.lines[sourceID]
		if !ok {
			return decimal.Zero, domain.ErrNotFound
		}
		return line.Remaining(), nil
	case repository.SourceDispatch:
		dispatch, ok := r.store.dispatches[sourceID]
		if !ok {
			return decimal.Zero, domain.ErrNotFound
		}
		return dispatch.Remaining(), nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

func (r *fakeAllocationRepo) Release(source repository.AllocationSource, sourceID string, qty decimal.Decimal) error {
	switch source {
	case repository.SourceCargoLine:
		line, ok := r.store.lines[sourceID]
		if !ok {
			return domain.ErrNotFound
		}
		if line.AllocatedQty.LessThan(qty) {
			return domain.ErrConflict
		}
		cp := *line
		cp.AllocatedQty = cp.AllocatedQty.Sub(qty)
		r.store.lines[sourceID] = &cp
		return nil
	case repository.SourceDispatch:
		dispatch, ok := r.store.dispatches[sourceID]
		if !ok {
			return domain.ErrNotFound
		}
		if dispatch.AllocatedToRotations.LessThan(qty) {
			return domain.ErrConflict
		}
		cp := *dispatch
		cp.AllocatedToRotations = cp.AllocatedToRotations.Sub(qty)
		r.store.dispatches[sourceID] = &cp
		return nil
	}
	return domain.ErrInvalidInput
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos de master data atados "al pool" (lecturas fuera de transacción):
// toman el mutex del store por llamada.
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ store *memStore }

func (r *fakeProductRepo) Create(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(product *entity.Product) error              { return nil }

type fakeWarehouseRepo struct{ store *memStore }

func (r *fakeWarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *warehouse
	r.store.warehouses[warehouse.ID] = &cp
	return nil
}

func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) { return nil, nil }
func (r *fakeWarehouseRepo) Update(warehouse *entity.Warehouse) error            { return nil }

type fakeClientRepo struct{ store *memStore }

func (r *fakeClientRepo) Create(client *entity.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *client
	r.store.clients[client.ID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) List(limit, offset int) ([]*entity.Client, error) { return nil, nil }
func (r *fakeClientRepo) Update(client *entity.Client) error               { return nil }

type fakeCarrierRepo struct{ store *memStore }

func (r *fakeCarrierRepo) Create(carrier *entity.Carrier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *carrier
	r.store.carriers[carrier.ID] = &cp
	return nil
}

func (r *fakeCarrierRepo) GetByID(id string) (*entity.Carrier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.carriers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCarrierRepo) List(onlyActive bool, limit, offset int) ([]*entity.Carrier, error) {
	return nil, nil
}
func (r *fakeCarrierRepo) Update(carrier *entity.Carrier) error { return nil }
