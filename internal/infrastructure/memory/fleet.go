package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

type vehicleRepo struct{ v *view }

func (r *vehicleRepo) Create(_ context.Context, ve *entity.Vehicle) error {
	return r.v.write(func(st *state) error {
		for _, e := range st.vehicles {
			if e.ID == ve.ID || e.Plate == ve.Plate || (ve.Code != "" && e.Code == ve.Code) {
				return domain.ErrDuplicate
			}
		}
		st.vehicles[ve.ID] = copyOf(ve)
		return nil
	})
}

func (r *vehicleRepo) GetByID(_ context.Context, id string) (*entity.Vehicle, error) {
	var out *entity.Vehicle
	r.v.read(func(st *state) { out = copyOf(st.vehicles[id]) })
	return out, nil
}

func (r *vehicleRepo) Update(_ context.Context, ve *entity.Vehicle) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.vehicles[ve.ID]; !ok {
			return domain.NewNotFound(domain.EntityVehicle, ve.ID)
		}
		st.vehicles[ve.ID] = copyOf(ve)
		return nil
	})
}

func (r *vehicleRepo) List(_ context.Context, onlyAvailable bool) ([]*entity.Vehicle, error) {
	var out []*entity.Vehicle
	r.v.read(func(st *state) {
		for _, ve := range st.vehicles {
			if onlyAvailable && !(ve.Active && ve.Available) {
				continue
			}
			out = append(out, copyOf(ve))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out, nil
}

func (r *vehicleRepo) TryLock(_ context.Context, id string) (bool, error) {
	locked := false
	err := r.v.write(func(st *state) error {
		ve, ok := st.vehicles[id]
		if !ok {
			return domain.NewUnknownEntity(domain.EntityVehicle, id)
		}
		if !ve.Available {
			return nil
		}
		c := copyOf(ve)
		c.Available = false
		st.vehicles[id] = c
		locked = true
		return nil
	})
	return locked, err
}

func (r *vehicleRepo) Release(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		ve, ok := st.vehicles[id]
		if !ok {
			return domain.NewNotFound(domain.EntityVehicle, id)
		}
		c := copyOf(ve)
		c.Available = true
		st.vehicles[id] = c
		return nil
	})
}

type driverRepo struct{ v *view }

func (r *driverRepo) Create(_ context.Context, d *entity.Driver) error {
	return r.v.write(func(st *state) error {
		for _, e := range st.drivers {
			if e.ID == d.ID || e.DocumentID == d.DocumentID || (d.Code != "" && e.Code == d.Code) {
				return domain.ErrDuplicate
			}
		}
		st.drivers[d.ID] = copyOf(d)
		return nil
	})
}

func (r *driverRepo) GetByID(_ context.Context, id string) (*entity.Driver, error) {
	var out *entity.Driver
	r.v.read(func(st *state) { out = copyOf(st.drivers[id]) })
	return out, nil
}

func (r *driverRepo) Update(_ context.Context, d *entity.Driver) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.drivers[d.ID]; !ok {
			return domain.NewNotFound(domain.EntityDriver, d.ID)
		}
		st.drivers[d.ID] = copyOf(d)
		return nil
	})
}

func (r *driverRepo) List(_ context.Context, onlyAvailable bool) ([]*entity.Driver, error) {
	var out []*entity.Driver
	r.v.read(func(st *state) {
		for _, d := range st.drivers {
			if onlyAvailable && !(d.Active && d.Available) {
				continue
			}
			out = append(out, copyOf(d))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (r *driverRepo) TryLock(_ context.Context, id string) (bool, error) {
	locked := false
	err := r.v.write(func(st *state) error {
		d, ok := st.drivers[id]
		if !ok {
			return domain.NewUnknownEntity(domain.EntityDriver, id)
		}
		if !d.Available {
			return nil
		}
		c := copyOf(d)
		c.Available = false
		st.drivers[id] = c
		locked = true
		return nil
	})
	return locked, err
}

func (r *driverRepo) Release(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		d, ok := st.drivers[id]
		if !ok {
			return domain.NewNotFound(domain.EntityDriver, id)
		}
		c := copyOf(d)
		c.Available = true
		st.drivers[id] = c
		return nil
	})
}

type zoneRepo struct{ v *view }

func copyZone(z *entity.Zone) *entity.Zone {
	if z == nil {
		return nil
	}
	c := *z
	c.Districts = append([]string(nil), z.Districts...)
	return &c
}

func (r *zoneRepo) Create(_ context.Context, z *entity.Zone) error {
	return r.v.write(func(st *state) error {
		for _, e := range st.zones {
			if e.ID == z.ID || e.Code == z.Code {
				return domain.ErrDuplicate
			}
		}
		st.zones[z.ID] = copyZone(z)
		return nil
	})
}

func (r *zoneRepo) GetByID(_ context.Context, id string) (*entity.Zone, error) {
	var out *entity.Zone
	r.v.read(func(st *state) { out = copyZone(st.zones[id]) })
	return out, nil
}

func (r *zoneRepo) Update(_ context.Context, z *entity.Zone) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.zones[z.ID]; !ok {
			return domain.NewNotFound(domain.EntityZone, z.ID)
		}
		st.zones[z.ID] = copyZone(z)
		return nil
	})
}

func (r *zoneRepo) List(_ context.Context) ([]*entity.Zone, error) {
	var out []*entity.Zone
	r.v.read(func(st *state) {
		for _, z := range st.zones {
			out = append(out, copyZone(z))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
