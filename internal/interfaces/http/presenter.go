package http

import (
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/application/sales"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// ── Inventario ───────────────────────────────────────────────────────────────

func toStockResponse(s *entity.StockRecord) dto.StockResponse {
	return dto.StockResponse{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		OnHand:      s.OnHand,
		Reserved:    s.Reserved,
		Available:   s.Available(),
		Location:    s.Location,
		Lot:         s.Lot,
		ExpiresAt:   s.ExpiresAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toStockList(list []*entity.StockRecord) []dto.StockResponse {
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStockResponse(s))
	}
	return out
}

func toLowStockList(list []inventory.ReplenishmentSuggestion) []dto.LowStockResponse {
	out := make([]dto.LowStockResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.LowStockResponse{
			Priority:      r.Priority,
			ProductID:     r.ProductID,
			SKU:           r.SKU,
			ProductName:   r.ProductName,
			OnHand:        r.OnHand,
			Available:     r.Available,
			MinStock:      r.MinStock,
			MaxStock:      r.MaxStock,
			IdealStock:    r.IdealStock,
			SuggestedQty:  r.SuggestedQty,
			UnitCost:      r.UnitCost,
			EstimatedCost: r.EstimatedCost,
		})
	}
	return out
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		TransactionID:  m.TransactionID,
		WarehouseID:    m.WarehouseID,
		ProductID:      m.ProductID,
		Type:           m.Code(),
		Direction:      string(m.Direction),
		Kind:           string(m.Kind),
		Quantity:       m.Quantity,
		StockBefore:    m.StockBefore,
		StockAfter:     m.StockAfter,
		DocumentType:   m.Document.Type,
		DocumentID:     m.Document.ID,
		DocumentNumber: m.Document.Number,
		Reason:         m.Reason,
		ActorID:        m.ActorID,
		UnitCost:       m.UnitCost,
		CreatedAt:      m.CreatedAt,
	}
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			DeliveredQty:   l.DeliveredQty,
			UnitPrice:      l.UnitPrice,
			DiscountPct:    l.DiscountPct,
			DiscountAmount: l.DiscountAmount,
			Subtotal:       l.Subtotal,
		})
	}
	return dto.OrderResponse{
		ID:                  o.ID,
		Number:              o.Number,
		CustomerID:          o.CustomerID,
		SalespersonID:       o.SalespersonID,
		WarehouseID:         o.WarehouseID,
		Status:              string(o.Status),
		DocumentType:        string(o.DocumentType),
		PaymentType:         string(o.PaymentType),
		PaymentDueAt:        o.PaymentDueAt,
		RequestedDeliveryAt: o.RequestedDeliveryAt,
		DeliveredAt:         o.DeliveredAt,
		Subtotal:            o.Subtotal,
		Discount:            o.Discount,
		Tax:                 o.Tax,
		Total:               o.Total,
		DeliveryAddress:     o.DeliveryAddress,
		DeliveryReference:   o.DeliveryReference,
		Notes:               o.Notes,
		Lines:               lines,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Reference: p.Reference,
		Confirmed: p.Confirmed,
		CreatedAt: p.CreatedAt,
	}
}

func toOverdueCreditList(list []sales.CustomerDebt) []dto.OverdueCreditResponse {
	out := make([]dto.OverdueCreditResponse, 0, len(list))
	for _, d := range list {
		orders := make([]dto.OverdueOrderResponse, 0, len(d.Orders))
		for _, od := range d.Orders {
			orders = append(orders, dto.OverdueOrderResponse{
				OrderID:      od.Order.ID,
				Number:       od.Order.Number,
				Status:       string(od.Order.Status),
				PaymentDueAt: *od.Order.PaymentDueAt,
				Total:        od.Order.Total,
				Paid:         od.Paid,
				Outstanding:  od.Outstanding(),
			})
		}
		out = append(out, dto.OverdueCreditResponse{
			CustomerID:  d.Customer.ID,
			Name:        d.Customer.Name,
			TaxID:       d.Customer.TaxID,
			Phone:       d.Customer.Phone,
			Outstanding: d.Outstanding,
			OldestDueAt: d.OldestDueAt,
			Orders:      orders,
		})
	}
	return out
}

// ── Logística ────────────────────────────────────────────────────────────────

func toShipmentResponse(s *entity.Shipment) dto.ShipmentResponse {
	return dto.ShipmentResponse{
		ID:                s.ID,
		Code:              s.Code,
		OrderID:           s.OrderID,
		RouteID:           s.RouteID,
		VehicleID:         s.VehicleID,
		DriverID:          s.DriverID,
		DeliverySeq:       s.DeliverySeq,
		Status:            string(s.Status),
		ScheduledAt:       s.ScheduledAt,
		DeliveredAt:       s.DeliveredAt,
		Signed:            s.Signed,
		RecipientName:     s.RecipientName,
		RecipientDocument: s.RecipientDocument,
		Latitude:          s.Latitude,
		Longitude:         s.Longitude,
		Notes:             s.Notes,
		FailureReason:     s.FailureReason,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func toShipmentList(list []*entity.Shipment) []dto.ShipmentResponse {
	out := make([]dto.ShipmentResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toShipmentResponse(s))
	}
	return out
}

func toRouteResponse(r *entity.Route) dto.RouteResponse {
	ids := r.ShipmentIDs
	if ids == nil {
		ids = []string{}
	}
	return dto.RouteResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Date:        r.Date,
		ZoneID:      r.ZoneID,
		VehicleID:   r.VehicleID,
		DriverID:    r.DriverID,
		ShipmentIDs: ids,
		Total:       r.Total,
		Succeeded:   r.Succeeded,
		Failed:      r.Failed,
		Completed:   r.Completed,
		ReturnedAt:  r.ReturnedAt,
		DistanceKm:  r.DistanceKm,
		CreatedAt:   r.CreatedAt,
	}
}
