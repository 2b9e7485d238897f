package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

type shipmentRepo struct{ v *view }

func (r *shipmentRepo) Create(_ context.Context, s *entity.Shipment) error {
	return r.v.write(func(st *state) error {
		for _, e := range st.shipments {
			if e.ID == s.ID || e.OrderID == s.OrderID || e.Code == s.Code {
				return domain.ErrDuplicate
			}
		}
		st.shipments[s.ID] = copyOf(s)
		return nil
	})
}

func (r *shipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	var out *entity.Shipment
	r.v.read(func(st *state) { out = copyOf(st.shipments[id]) })
	return out, nil
}

func (r *shipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.GetByID(ctx, id)
}

func (r *shipmentRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Shipment, error) {
	var out *entity.Shipment
	r.v.read(func(st *state) {
		for _, s := range st.shipments {
			if s.OrderID == orderID {
				out = copyOf(s)
				return
			}
		}
	})
	return out, nil
}

func (r *shipmentRepo) Update(_ context.Context, s *entity.Shipment) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.shipments[s.ID]; !ok {
			return domain.NewNotFound(domain.EntityShipment, s.ID)
		}
		st.shipments[s.ID] = copyOf(s)
		return nil
	})
}

func (r *shipmentRepo) List(_ context.Context, f repository.ShipmentFilter) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	r.v.read(func(st *state) {
		for _, s := range st.shipments {
			if len(f.Statuses) > 0 && !containsStatus(f.Statuses, s.Status) {
				continue
			}
			if f.RouteID != "" && (s.RouteID == nil || *s.RouteID != f.RouteID) {
				continue
			}
			if f.VehicleID != "" && (s.VehicleID == nil || *s.VehicleID != f.VehicleID) {
				continue
			}
			if f.DriverID != "" && (s.DriverID == nil || *s.DriverID != f.DriverID) {
				continue
			}
			if f.ScheduledFrom != nil && (s.ScheduledAt == nil || s.ScheduledAt.Before(*f.ScheduledFrom)) {
				continue
			}
			if f.ScheduledTo != nil && (s.ScheduledAt == nil || !s.ScheduledAt.Before(*f.ScheduledTo)) {
				continue
			}
			out = append(out, copyOf(s))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DeliverySeq != nil && b.DeliverySeq != nil && *a.DeliverySeq != *b.DeliverySeq {
			return *a.DeliverySeq < *b.DeliverySeq
		}
		return a.Code < b.Code
	})
	return page(out, f.Limit, f.Offset), nil
}

func containsStatus(list []entity.ShipmentStatus, s entity.ShipmentStatus) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func (r *shipmentRepo) LastCode(_ context.Context, prefix string) (string, error) {
	last := ""
	r.v.read(func(st *state) {
		for _, s := range st.shipments {
			if strings.HasPrefix(s.Code, prefix) && s.Code > last {
				last = s.Code
			}
		}
	})
	return last, nil
}

type routeRepo struct{ v *view }

func copyRoute(rt *entity.Route) *entity.Route {
	if rt == nil {
		return nil
	}
	c := *rt
	c.ShipmentIDs = append([]string(nil), rt.ShipmentIDs...)
	return &c
}

func (r *routeRepo) Create(_ context.Context, rt *entity.Route) error {
	return r.v.write(func(st *state) error {
		for _, e := range st.routes {
			if e.ID == rt.ID || e.Code == rt.Code {
				return domain.ErrDuplicate
			}
		}
		st.routes[rt.ID] = copyRoute(rt)
		return nil
	})
}

func (r *routeRepo) GetByID(_ context.Context, id string) (*entity.Route, error) {
	var out *entity.Route
	r.v.read(func(st *state) { out = copyRoute(st.routes[id]) })
	return out, nil
}

func (r *routeRepo) GetForUpdate(ctx context.Context, id string) (*entity.Route, error) {
	return r.GetByID(ctx, id)
}

func (r *routeRepo) Update(_ context.Context, rt *entity.Route) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.routes[rt.ID]; !ok {
			return domain.NewNotFound(domain.EntityRoute, rt.ID)
		}
		st.routes[rt.ID] = copyRoute(rt)
		return nil
	})
}

func (r *routeRepo) LastCode(_ context.Context, prefix string) (string, error) {
	last := ""
	r.v.read(func(st *state) {
		for _, rt := range st.routes {
			if strings.HasPrefix(rt.Code, prefix) && rt.Code > last {
				last = rt.Code
			}
		}
	})
	return last, nil
}
