package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidState        = errors.New("operación no permitida en el estado actual")
	ErrUnknownProduct      = errors.New("producto desconocido")
	ErrUnknownEntity       = errors.New("referencia a entidad desconocida")
	ErrOrderNotReady       = errors.New("la venta no está lista para envío")
	ErrResourceUnavailable = errors.New("recurso no disponible")
)

// Nombres de entidad usados en los errores tipados.
const (
	EntityProduct   = "producto"
	EntityWarehouse = "almacen"
	EntityCustomer  = "cliente"
	EntityOrder     = "venta"
	EntityShipment  = "envio"
	EntityRoute     = "ruta"
	EntityVehicle   = "vehiculo"
	EntityDriver    = "conductor"
	EntityZone      = "zona"
	EntityUser      = "usuario"
)

// NotFoundError indica que el id no tiene registro. errors.Is(err, ErrNotFound) == true.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFound construye un NotFoundError.
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidStateError indica que la operación no está permitida desde el estado actual.
type InvalidStateError struct {
	Entity    string
	ID        string
	State     string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: no se puede %s en estado %s", e.Entity, e.ID, e.Operation, e.State)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// NewInvalidState construye un InvalidStateError.
func NewInvalidState(entity, id, state, operation string) error {
	return &InvalidStateError{Entity: entity, ID: id, State: state, Operation: operation}
}

// InsufficientStockError lleva la cantidad solicitada y la disponible al momento del rechazo.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en almacén %s. Disponible: %d, Solicitado: %d",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// UnknownEntityError es una violación de integridad referencial en la entrada.
// Para productos también satisface errors.Is(err, ErrUnknownProduct).
type UnknownEntityError struct {
	Entity string
	ID     string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("%s %s no existe", e.Entity, e.ID)
}

func (e *UnknownEntityError) Is(target error) bool {
	if target == ErrUnknownEntity {
		return true
	}
	return target == ErrUnknownProduct && e.Entity == EntityProduct
}

// NewUnknownEntity construye un UnknownEntityError.
func NewUnknownEntity(entity, id string) error {
	return &UnknownEntityError{Entity: entity, ID: id}
}

// OrderNotReadyError se devuelve al crear un envío para una venta en un estado no despachable.
type OrderNotReadyError struct {
	OrderID string
	State   string
}

func (e *OrderNotReadyError) Error() string {
	return fmt.Sprintf("la venta %s no está lista para envío. Estado: %s", e.OrderID, e.State)
}

func (e *OrderNotReadyError) Is(target error) bool { return target == ErrOrderNotReady }

// ResourceUnavailableError indica que un vehículo o conductor ya está tomado por otra ruta.
type ResourceUnavailableError struct {
	Resource string
	ID       string
}

func (e *ResourceUnavailableError) Error() string {
	return fmt.Sprintf("%s %s no está disponible", e.Resource, e.ID)
}

func (e *ResourceUnavailableError) Is(target error) bool { return target == ErrResourceUnavailable }
