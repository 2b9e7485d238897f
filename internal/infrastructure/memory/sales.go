package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

type customerRepo struct{ v *view }

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.customers[c.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, e := range st.customers {
			if c.TaxID != "" && e.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
		st.customers[c.ID] = copyOf(c)
		return nil
	})
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.v.read(func(st *state) { out = copyOf(st.customers[id]) })
	return out, nil
}

func (r *customerRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Customer, error) {
	var out *entity.Customer
	r.v.read(func(st *state) {
		for _, c := range st.customers {
			if c.TaxID == taxID {
				out = copyOf(c)
				return
			}
		}
	})
	return out, nil
}

func (r *customerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	r.v.read(func(st *state) {
		for _, c := range st.customers {
			out = append(out, copyOf(c))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *customerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.customers[c.ID]; !ok {
			return domain.NewNotFound(domain.EntityCustomer, c.ID)
		}
		st.customers[c.ID] = copyOf(c)
		return nil
	})
}

type userRepo struct{ v *view }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.write(func(st *state) error {
		for _, e := range st.users {
			if strings.EqualFold(e.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = copyOf(u)
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.v.read(func(st *state) { out = copyOf(st.users[id]) })
	return out, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.v.read(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = copyOf(u)
				return
			}
		}
	})
	return out, nil
}

type orderRepo struct{ v *view }

func copyOrder(o *entity.Order) *entity.Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Lines = append([]entity.OrderLine(nil), o.Lines...)
	return &c
}

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, e := range st.orders {
			if e.Number == o.Number {
				return domain.ErrDuplicate
			}
		}
		st.orders[o.ID] = copyOrder(o)
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	r.v.read(func(st *state) { out = copyOrder(st.orders[id]) })
	return out, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) GetByNumber(_ context.Context, number string) (*entity.Order, error) {
	var out *entity.Order
	r.v.read(func(st *state) {
		for _, o := range st.orders {
			if o.Number == number {
				out = copyOrder(o)
				return
			}
		}
	})
	return out, nil
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order) error {
	return r.v.write(func(st *state) error {
		prev, ok := st.orders[o.ID]
		if !ok {
			return domain.NewNotFound(domain.EntityOrder, o.ID)
		}
		c := copyOrder(o)
		c.Lines = prev.Lines
		st.orders[o.ID] = c
		return nil
	})
}

func (r *orderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	r.v.read(func(st *state) {
		for _, o := range st.orders {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.CustomerID != "" && o.CustomerID != f.CustomerID {
				continue
			}
			if f.From != nil && o.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && o.CreatedAt.After(*f.To) {
				continue
			}
			out = append(out, copyOrder(o))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return page(out, f.Limit, f.Offset), nil
}

func (r *orderRepo) LastNumber(_ context.Context, prefix string) (string, error) {
	last := ""
	r.v.read(func(st *state) {
		for _, o := range st.orders {
			if strings.HasPrefix(o.Number, prefix) && o.Number > last {
				last = o.Number
			}
		}
	})
	return last, nil
}

func (r *orderRepo) CreatePayment(_ context.Context, p *entity.Payment) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.orders[p.OrderID]; !ok {
			return domain.NewNotFound(domain.EntityOrder, p.OrderID)
		}
		st.payments = append(st.payments, copyOf(p))
		return nil
	})
}

func (r *orderRepo) ListPayments(_ context.Context, orderID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	r.v.read(func(st *state) {
		for _, p := range st.payments {
			if p.OrderID == orderID {
				out = append(out, copyOf(p))
			}
		}
	})
	return out, nil
}

func (r *orderRepo) ListOverdue(_ context.Context, asOf time.Time) ([]repository.OverdueOrder, error) {
	var out []repository.OverdueOrder
	r.v.read(func(st *state) {
		paid := map[string]decimal.Decimal{}
		for _, p := range st.payments {
			paid[p.OrderID] = paid[p.OrderID].Add(p.Amount)
		}
		for _, o := range st.orders {
			if o.Status == entity.OrderDraft || o.Status == entity.OrderCancelled {
				continue
			}
			if o.PaymentDueAt == nil || !o.PaymentDueAt.Before(asOf) {
				continue
			}
			item := repository.OverdueOrder{Order: copyOrder(o), Paid: paid[o.ID]}
			item.Order.Lines = nil
			if item.Outstanding().IsPositive() {
				out = append(out, item)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Order, out[j].Order
		if !a.PaymentDueAt.Equal(*b.PaymentDueAt) {
			return a.PaymentDueAt.Before(*b.PaymentDueAt)
		}
		return a.Number < b.Number
	})
	return out, nil
}
