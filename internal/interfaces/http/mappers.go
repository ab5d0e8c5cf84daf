package http

import (
	"github.com/tu-usuario/cargoflow-api/internal/application/dto"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
)

func toShipResponse(s *entity.Ship) dto.ShipResponse {
	return dto.ShipResponse{
		ID:         s.ID,
		Name:       s.Name,
		IMONumber:  s.IMONumber,
		OriginPort: s.OriginPort,
		Status:     s.Status,
		ArrivedAt:  s.ArrivedAt,
		DepartedAt: s.DepartedAt,
		CreatedAt:  s.CreatedAt,
	}
}

func toCargoLineResponse(l *entity.CargoLine) dto.CargoLineResponse {
	return dto.CargoLineResponse{
		ID:           l.ID,
		ShipID:       l.ShipID,
		ProductID:    l.ProductID,
		DeclaredQty:  l.DeclaredQty,
		ReceivedQty:  l.ReceivedQty,
		AllocatedQty: l.AllocatedQty,
		RemainingQty: l.Remaining(),
		Unit:         l.Unit,
		LotNumber:    l.LotNumber,
		Status:       l.Status,
		ReceivedAt:   l.ReceivedAt,
	}
}

func toDispatchResponse(d *entity.Dispatch) dto.DispatchResponse {
	return dto.DispatchResponse{
		ID:                     d.ID,
		Number:                 d.Number,
		CargoLineID:            d.CargoLineID,
		SourceWarehouseID:      d.SourceWarehouseID,
		DestinationWarehouseID: d.DestinationWarehouseID,
		DestinationClientID:    d.DestinationClientID,
		ProductID:              d.ProductID,
		TotalQty:               d.TotalQty,
		AllocatedToRotations:   d.AllocatedToRotations,
		RemainingQty:           d.Remaining(),
		ShortfallQty:           d.ShortfallQty,
		Status:                 d.Status,
		Notes:                  d.Notes,
		CompletedAt:            d.CompletedAt,
		CreatedAt:              d.CreatedAt,
	}
}

func toRotationResponse(r *entity.Rotation) dto.RotationResponse {
	return dto.RotationResponse{
		ID:           r.ID,
		Number:       r.Number,
		DispatchID:   r.DispatchID,
		CarrierID:    r.CarrierID,
		PlannedQty:   r.PlannedQty,
		DeliveredQty: r.DeliveredQty,
		Variance:     r.Variance,
		Status:       r.Status,
		DepartedAt:   r.DepartedAt,
		ArrivedAt:    r.ArrivedAt,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
	}
}

func toBalanceResponse(b *entity.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		ProductID:   b.ProductID,
		WarehouseID: b.WarehouseID,
		OnHand:      b.OnHand,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:          e.ID,
		Type:        e.Type,
		ProductID:   e.ProductID,
		WarehouseID: e.WarehouseID,
		Qty:         e.Qty,
		Reference:   e.Reference,
		RotationID:  e.RotationID,
		Description: e.Description,
		OccurredAt:  e.OccurredAt,
		CreatedBy:   e.CreatedBy,
	}
}
