// Package memory implementa los puertos de repository en memoria de proceso.
// Las transacciones se serializan con un mutex y trabajan sobre una copia del estado
// que reemplaza al estado vigente sólo si fn termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type stockKey struct {
	productID   string
	warehouseID string
}

type state struct {
	stock      map[stockKey]*entity.StockRecord
	movements  []*entity.Movement
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	customers  map[string]*entity.Customer
	orders     map[string]*entity.Order
	payments   []*entity.Payment
	shipments  map[string]*entity.Shipment
	routes     map[string]*entity.Route
	vehicles   map[string]*entity.Vehicle
	drivers    map[string]*entity.Driver
	zones      map[string]*entity.Zone
	users      map[string]*entity.User
}

func newState() *state {
	return &state{
		stock:      map[stockKey]*entity.StockRecord{},
		products:   map[string]*entity.Product{},
		warehouses: map[string]*entity.Warehouse{},
		customers:  map[string]*entity.Customer{},
		orders:     map[string]*entity.Order{},
		shipments:  map[string]*entity.Shipment{},
		routes:     map[string]*entity.Route{},
		vehicles:   map[string]*entity.Vehicle{},
		drivers:    map[string]*entity.Driver{},
		zones:      map[string]*entity.Zone{},
		users:      map[string]*entity.User{},
	}
}

// clone copia los mapas; los valores se tratan como inmutables (cada escritura guarda una copia nueva).
func (s *state) clone() *state {
	return &state{
		stock:      cloneMap(s.stock),
		movements:  append([]*entity.Movement(nil), s.movements...),
		products:   cloneMap(s.products),
		warehouses: cloneMap(s.warehouses),
		customers:  cloneMap(s.customers),
		orders:     cloneMap(s.orders),
		payments:   append([]*entity.Payment(nil), s.payments...),
		shipments:  cloneMap(s.shipments),
		routes:     cloneMap(s.routes),
		vehicles:   cloneMap(s.vehicles),
		drivers:    cloneMap(s.drivers),
		zones:      cloneMap(s.zones),
		users:      cloneMap(s.users),
	}
}

func cloneMap[K comparable, V any](m map[K]*V) map[K]*V {
	out := make(map[K]*V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Store almacén en memoria. El valor cero no es usable: usar NewStore.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view resuelve el estado sobre el que opera un repositorio: el vivo (bloqueando por llamada)
// o la copia de trabajo de una transacción (el lock ya lo tiene Run).
type view struct {
	store *Store
	st    *state
}

func (v *view) read(fn func(st *state)) {
	if v.store != nil {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
		fn(v.store.st)
		return
	}
	fn(v.st)
}

func (v *view) write(fn func(st *state) error) error {
	var err error
	v.read(func(st *state) { err = fn(st) })
	return err
}

// Repos devuelve repositorios fuera de transacción (cada llamada es atómica por sí sola).
func (s *Store) Repos() repository.Repos {
	return reposFor(&view{store: s})
}

// Run ejecuta fn sobre una copia del estado y la publica sólo si fn no devuelve error.
// No llamar a repositorios de Repos() dentro de fn: el mutex ya está tomado.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposFor(&view{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func reposFor(v *view) repository.Repos {
	return repository.Repos{
		Stock:      &stockRepo{v},
		Movements:  &movementRepo{v},
		Products:   &productRepo{v},
		Warehouses: &warehouseRepo{v},
		Customers:  &customerRepo{v},
		Orders:     &orderRepo{v},
		Shipments:  &shipmentRepo{v},
		Routes:     &routeRepo{v},
		Vehicles:   &vehicleRepo{v},
		Drivers:    &driverRepo{v},
		Zones:      &zoneRepo{v},
		Users:      &userRepo{v},
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
