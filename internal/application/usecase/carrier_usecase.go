package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/application/dto"
	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// defaultTruckCapacity capacidad por defecto del camión en toneladas.
var defaultTruckCapacity = decimal.NewFromInt(40)

// CarrierUseCase casos de uso CRUD para transportistas.
type CarrierUseCase struct {
	repo repository.CarrierRepository
}

// NewCarrierUseCase construye el caso de uso.
func NewCarrierUseCase(repo repository.CarrierRepository) *CarrierUseCase {
	return &CarrierUseCase{repo: repo}
}

// Create crea un nuevo transportista. Sin capacidad declarada se asume 40 t.
func (uc *CarrierUseCase) Create(in dto.CreateCarrierRequest) (*dto.CarrierResponse, error) {
	if in.Name == "" || in.LicenseNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TruckCapacity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	capacity := in.TruckCapacity
	if capacity.IsZero() {
		capacity = defaultTruckCapacity
	}
	now := time.Now()
	carrier := &entity.Carrier{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Phone:         in.Phone,
		LicenseNumber: in.LicenseNumber,
		TruckNumber:   in.TruckNumber,
		TruckCapacity: capacity,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(carrier); err != nil {
		return nil, err
	}
	return toCarrierResponse(carrier), nil
}

// GetByID obtiene un transportista por ID.
func (uc *CarrierUseCase) GetByID(id string) (*dto.CarrierResponse, error) {
	carrier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if carrier == nil {
		return nil, nil
	}
	return toCarrierResponse(carrier), nil
}

// Update actualiza un transportista. Campos nil no se tocan.
func (uc *CarrierUseCase) Update(id string, in dto.UpdateCarrierRequest) (*dto.CarrierResponse, error) {
	carrier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if carrier == nil {
		return nil, nil
	}
	if in.Name != nil {
		carrier.Name = *in.Name
	}
	if in.Phone != nil {
		carrier.Phone = *in.Phone
	}
	if in.TruckNumber != nil {
		carrier.TruckNumber = *in.TruckNumber
	}
	if in.TruckCapacity != nil {
		if in.TruckCapacity.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		carrier.TruckCapacity = *in.TruckCapacity
	}
	if in.Active != nil {
		carrier.Active = *in.Active
	}
	carrier.UpdatedAt = time.Now()
	if err := uc.repo.Update(carrier); err != nil {
		return nil, err
	}
	return toCarrierResponse(carrier), nil
}

// List lista transportistas, opcionalmente solo activos.
func (uc *CarrierUseCase) List(onlyActive bool, limit, offset int) ([]dto.CarrierResponse, error) {
	list, err := uc.repo.List(onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CarrierResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCarrierResponse(c))
	}
	return items, nil
}

func toCarrierResponse(c *entity.Carrier) *dto.CarrierResponse {
	if c == nil {
		return nil
	}
	return &dto.CarrierResponse{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		LicenseNumber: c.LicenseNumber,
		TruckNumber:   c.TruckNumber,
		TruckCapacity: c.TruckCapacity,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
