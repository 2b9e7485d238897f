package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// FleetUseCase maestros de logística: vehículos, conductores y zonas.
// La disponibilidad de vehículos y conductores sólo la cambian las rutas.
type FleetUseCase struct {
	vehicles repository.VehicleRepository
	drivers  repository.DriverRepository
	zones    repository.ZoneRepository
}

// NewFleetUseCase construye el caso de uso.
func NewFleetUseCase(vehicles repository.VehicleRepository, drivers repository.DriverRepository, zones repository.ZoneRepository) *FleetUseCase {
	return &FleetUseCase{vehicles: vehicles, drivers: drivers, zones: zones}
}

func validVehicleType(t string) bool {
	switch t {
	case entity.VehicleMotorcycle, entity.VehicleVan, entity.VehicleSmallTruck, entity.VehicleLargeTruck:
		return true
	}
	return false
}

// ── Vehículos ──

// CreateVehicle registra un vehículo disponible.
func (uc *FleetUseCase) CreateVehicle(ctx context.Context, in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	plate := strings.ToUpper(strings.TrimSpace(in.Plate))
	if plate == "" || !validVehicleType(in.Type) || in.CapacityKg < 0 || in.CapacityM3 < 0 {
		return nil, domain.ErrInvalidInput
	}
	code := in.Code
	if code == "" {
		code = plate
	}
	now := time.Now()
	v := &entity.Vehicle{
		ID:               uuid.New().String(),
		Code:             code,
		Plate:            plate,
		Type:             in.Type,
		Brand:            in.Brand,
		Model:            in.Model,
		CapacityKg:       in.CapacityKg,
		CapacityM3:       in.CapacityM3,
		Active:           true,
		Available:        true,
		InsuranceExpires: in.InsuranceExpires,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// GetVehicle obtiene un vehículo por ID.
func (uc *FleetUseCase) GetVehicle(ctx context.Context, id string) (*dto.VehicleResponse, error) {
	v, err := uc.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NewNotFound(domain.EntityVehicle, id)
	}
	return toVehicleResponse(v), nil
}

// UpdateVehicle aplica el patch.
func (uc *FleetUseCase) UpdateVehicle(ctx context.Context, id string, in dto.UpdateVehicleRequest) (*dto.VehicleResponse, error) {
	v, err := uc.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NewNotFound(domain.EntityVehicle, id)
	}
	if in.Brand != nil {
		v.Brand = *in.Brand
	}
	if in.Model != nil {
		v.Model = *in.Model
	}
	if in.CapacityKg != nil {
		v.CapacityKg = *in.CapacityKg
	}
	if in.CapacityM3 != nil {
		v.CapacityM3 = *in.CapacityM3
	}
	if in.InsuranceExpires != nil {
		v.InsuranceExpires = in.InsuranceExpires
	}
	if in.Active != nil {
		v.Active = *in.Active
	}
	v.UpdatedAt = time.Now()
	if err := uc.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// ListVehicles lista vehículos; onlyAvailable filtra activos y libres.
func (uc *FleetUseCase) ListVehicles(ctx context.Context, onlyAvailable bool) ([]dto.VehicleResponse, error) {
	list, err := uc.vehicles.List(ctx, onlyAvailable)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		out = append(out, *toVehicleResponse(v))
	}
	return out, nil
}

// ── Conductores ──

// CreateDriver registra un conductor disponible.
func (uc *FleetUseCase) CreateDriver(ctx context.Context, in dto.CreateDriverRequest) (*dto.DriverResponse, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.DocumentID) == "" || strings.TrimSpace(in.LicenseNumber) == "" {
		return nil, domain.ErrInvalidInput
	}
	code := in.Code
	if code == "" {
		code = in.DocumentID
	}
	now := time.Now()
	d := &entity.Driver{
		ID:              uuid.New().String(),
		Code:            code,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		DocumentID:      in.DocumentID,
		Phone:           in.Phone,
		LicenseNumber:   in.LicenseNumber,
		LicenseCategory: in.LicenseCategory,
		LicenseExpires:  in.LicenseExpires,
		Active:          true,
		Available:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.drivers.Create(ctx, d); err != nil {
		return nil, err
	}
	return toDriverResponse(d), nil
}

// GetDriver obtiene un conductor por ID.
func (uc *FleetUseCase) GetDriver(ctx context.Context, id string) (*dto.DriverResponse, error) {
	d, err := uc.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NewNotFound(domain.EntityDriver, id)
	}
	return toDriverResponse(d), nil
}

// UpdateDriver aplica el patch.
func (uc *FleetUseCase) UpdateDriver(ctx context.Context, id string, in dto.UpdateDriverRequest) (*dto.DriverResponse, error) {
	d, err := uc.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NewNotFound(domain.EntityDriver, id)
	}
	if in.FirstName != nil {
		d.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		d.LastName = *in.LastName
	}
	if in.Phone != nil {
		d.Phone = *in.Phone
	}
	if in.LicenseNumber != nil {
		d.LicenseNumber = *in.LicenseNumber
	}
	if in.LicenseCategory != nil {
		d.LicenseCategory = *in.LicenseCategory
	}
	if in.LicenseExpires != nil {
		d.LicenseExpires = in.LicenseExpires
	}
	if in.Active != nil {
		d.Active = *in.Active
	}
	d.UpdatedAt = time.Now()
	if err := uc.drivers.Update(ctx, d); err != nil {
		return nil, err
	}
	return toDriverResponse(d), nil
}

// ListDrivers lista conductores; onlyAvailable filtra activos y libres.
func (uc *FleetUseCase) ListDrivers(ctx context.Context, onlyAvailable bool) ([]dto.DriverResponse, error) {
	list, err := uc.drivers.List(ctx, onlyAvailable)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DriverResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDriverResponse(d))
	}
	return out, nil
}

// ── Zonas ──

// CreateZone crea una zona de reparto.
func (uc *FleetUseCase) CreateZone(ctx context.Context, in dto.CreateZoneRequest) (*dto.ZoneResponse, error) {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	z := &entity.Zone{
		ID:           uuid.New().String(),
		Code:         in.Code,
		Name:         in.Name,
		Districts:    in.Districts,
		Description:  in.Description,
		DeliveryDays: in.DeliveryDays,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := uc.zones.Create(ctx, z); err != nil {
		return nil, err
	}
	return toZoneResponse(z), nil
}

// GetZone obtiene una zona por ID.
func (uc *FleetUseCase) GetZone(ctx context.Context, id string) (*dto.ZoneResponse, error) {
	z, err := uc.zones.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if z == nil {
		return nil, domain.NewNotFound(domain.EntityZone, id)
	}
	return toZoneResponse(z), nil
}

// UpdateZone aplica el patch. Districts no nil reemplaza la lista completa.
func (uc *FleetUseCase) UpdateZone(ctx context.Context, id string, in dto.UpdateZoneRequest) (*dto.ZoneResponse, error) {
	z, err := uc.zones.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if z == nil {
		return nil, domain.NewNotFound(domain.EntityZone, id)
	}
	if in.Name != nil {
		z.Name = *in.Name
	}
	if in.Districts != nil {
		z.Districts = in.Districts
	}
	if in.Description != nil {
		z.Description = *in.Description
	}
	if in.DeliveryDays != nil {
		z.DeliveryDays = *in.DeliveryDays
	}
	if in.Active != nil {
		z.Active = *in.Active
	}
	if err := uc.zones.Update(ctx, z); err != nil {
		return nil, err
	}
	return toZoneResponse(z), nil
}

// ListZones lista todas las zonas.
func (uc *FleetUseCase) ListZones(ctx context.Context) ([]dto.ZoneResponse, error) {
	list, err := uc.zones.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ZoneResponse, 0, len(list))
	for _, z := range list {
		out = append(out, *toZoneResponse(z))
	}
	return out, nil
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:               v.ID,
		Code:             v.Code,
		Plate:            v.Plate,
		Type:             v.Type,
		Brand:            v.Brand,
		Model:            v.Model,
		CapacityKg:       v.CapacityKg,
		CapacityM3:       v.CapacityM3,
		Active:           v.Active,
		Available:        v.Available,
		InsuranceExpires: v.InsuranceExpires,
		CreatedAt:        v.CreatedAt,
	}
}

func toDriverResponse(d *entity.Driver) *dto.DriverResponse {
	return &dto.DriverResponse{
		ID:              d.ID,
		Code:            d.Code,
		FullName:        d.FullName(),
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		DocumentID:      d.DocumentID,
		Phone:           d.Phone,
		LicenseNumber:   d.LicenseNumber,
		LicenseCategory: d.LicenseCategory,
		LicenseExpires:  d.LicenseExpires,
		Active:          d.Active,
		Available:       d.Available,
		CreatedAt:       d.CreatedAt,
	}
}

func toZoneResponse(z *entity.Zone) *dto.ZoneResponse {
	districts := z.Districts
	if districts == nil {
		districts = []string{}
	}
	return &dto.ZoneResponse{
		ID:           z.ID,
		Code:         z.Code,
		Name:         z.Name,
		Districts:    districts,
		Description:  z.Description,
		DeliveryDays: z.DeliveryDays,
		Active:       z.Active,
		CreatedAt:    z.CreatedAt,
	}
}
