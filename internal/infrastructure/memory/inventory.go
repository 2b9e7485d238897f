package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

type stockRepo struct{ v *view }

func copyStock(r *entity.StockRecord) *entity.StockRecord {
	c := copyOf(r)
	if r.ExpiresAt != nil {
		c.ExpiresAt = copyOf(r.ExpiresAt)
	}
	return c
}

func (r *stockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	r.v.read(func(st *state) {
		if rec, ok := st.stock[stockKey{productID, warehouseID}]; ok {
			out = copyStock(rec)
		}
	})
	if out == nil {
		out = entity.NewStockRecord(productID, warehouseID)
	}
	return out, nil
}

func (r *stockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	r.v.read(func(st *state) {
		k := stockKey{productID, warehouseID}
		rec, ok := st.stock[k]
		if !ok {
			rec = entity.NewStockRecord(productID, warehouseID)
			rec.UpdatedAt = time.Now()
			st.stock[k] = rec
		}
		out = copyStock(rec)
	})
	return out, nil
}

func (r *stockRepo) Upsert(_ context.Context, rec *entity.StockRecord) error {
	if rec.OnHand < 0 || rec.Reserved < 0 || rec.Reserved > rec.OnHand {
		return domain.ErrConflict
	}
	return r.v.write(func(st *state) error {
		st.stock[stockKey{rec.ProductID, rec.WarehouseID}] = copyStock(rec)
		return nil
	})
}

func (r *stockRepo) list(match func(*entity.StockRecord) bool) []*entity.StockRecord {
	var out []*entity.StockRecord
	r.v.read(func(st *state) {
		for _, rec := range st.stock {
			if match(rec) {
				out = append(out, copyStock(rec))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out
}

func (r *stockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockRecord, error) {
	return r.list(func(s *entity.StockRecord) bool { return s.ProductID == productID }), nil
}

func (r *stockRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	return r.list(func(s *entity.StockRecord) bool { return s.WarehouseID == warehouseID }), nil
}

func (r *stockRepo) ListExpiring(_ context.Context, before time.Time) ([]*entity.StockRecord, error) {
	out := r.list(func(s *entity.StockRecord) bool {
		return s.ExpiresAt != nil && !s.ExpiresAt.After(before) && s.OnHand > 0
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiresAt.Before(*out[j].ExpiresAt) })
	return out, nil
}

func (r *stockRepo) ListBelowMinimum(_ context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	var out []repository.LowStockItem
	r.v.read(func(st *state) {
		for _, p := range st.products {
			if !p.Active {
				continue
			}
			item := repository.LowStockItem{
				ProductID: p.ID, SKU: p.SKU, ProductName: p.Name,
				MinStock: p.MinStock, MaxStock: p.MaxStock, UnitCost: p.Cost,
			}
			for k, rec := range st.stock {
				if k.productID != p.ID || (warehouseID != "" && k.warehouseID != warehouseID) {
					continue
				}
				item.OnHand += rec.OnHand
				item.Available += rec.Available()
			}
			if item.OnHand < item.MinStock {
				out = append(out, item)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].MinStock-out[i].OnHand, out[j].MinStock-out[j].OnHand
		if di != dj {
			return di > dj
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

type movementRepo struct{ v *view }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(st *state) error {
		st.movements = append(st.movements, copyOf(m))
		return nil
	})
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.v.read(func(st *state) {
		// más recientes primero
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
				continue
			}
			if f.Direction != "" && m.Direction != f.Direction {
				continue
			}
			if f.Kind != "" && m.Kind != f.Kind {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.CreatedAt.After(*f.To) {
				continue
			}
			out = append(out, copyOf(m))
		}
	})
	return page(out, f.Limit, f.Offset), nil
}

type productRepo struct{ v *view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, e := range st.products {
			if e.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = copyOf(p)
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(st *state) { out = copyOf(st.products[id]) })
	return out, nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(st *state) {
		for _, p := range st.products {
			if p.SKU == sku {
				out = copyOf(p)
				return
			}
		}
	})
	return out, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.NewNotFound(domain.EntityProduct, p.ID)
		}
		st.products[p.ID] = copyOf(p)
		return nil
	})
}

func (r *productRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.v.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.NewNotFound(domain.EntityProduct, productID)
		}
		c := copyOf(p)
		c.Cost = cost
		c.UpdatedAt = time.Now()
		st.products[productID] = c
		return nil
	})
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	r.v.read(func(st *state) {
		for _, p := range st.products {
			out = append(out, copyOf(p))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

type warehouseRepo struct{ v *view }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, e := range st.warehouses {
			if e.Code == w.Code {
				return domain.ErrDuplicate
			}
		}
		st.warehouses[w.ID] = copyOf(w)
		return nil
	})
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.v.read(func(st *state) { out = copyOf(st.warehouses[id]) })
	return out, nil
}

func (r *warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; !ok {
			return domain.NewNotFound(domain.EntityWarehouse, w.ID)
		}
		st.warehouses[w.ID] = copyOf(w)
		return nil
	})
}

func (r *warehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	r.v.read(func(st *state) {
		for _, w := range st.warehouses {
			out = append(out, copyOf(w))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}
