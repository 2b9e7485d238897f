// Package pdf genera la hoja de ruta (manifiesto de reparto) de una ruta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Código de ruta + nombre │ Fecha + QR del código    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VEHÍCULO / CONDUCTOR / ZONA                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Envío | Cliente | Dirección | Total | Firma      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: paradas / importe a cobrar                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	applogistics "github.com/jhoicas/distribuidora-api/internal/application/logistics"
	"github.com/jhoicas/distribuidora-api/pkg/textnorm"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ applogistics.ManifestRenderer = (*RouteManifestRenderer)(nil)

// RouteManifestRenderer implementa logistics.ManifestRenderer usando Maroto v2.
type RouteManifestRenderer struct {
	company string
	money   *message.Printer
}

// NewRouteManifestRenderer construye el generador. company aparece en la cabecera.
func NewRouteManifestRenderer(company string) *RouteManifestRenderer {
	return &RouteManifestRenderer{
		company: company,
		money:   message.NewPrinter(language.LatinAmericanSpanish),
	}
}

// RenderRouteManifest genera el PDF y devuelve sus bytes.
func (g *RouteManifestRenderer) RenderRouteManifest(_ context.Context, m *applogistics.RouteManifest) ([]byte, error) {
	if m == nil || m.Route == nil {
		return nil, fmt.Errorf("pdf: manifiesto sin ruta")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de ruta "+m.Route.Code, true).
		WithAuthor(g.company, true).
		Build()

	doc := maroto.New(cfg)

	doc.AddRows(g.headerRow(m))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	doc.AddRows(resourcesRow(m))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	doc.AddRows(tableHeaderRow())
	doc.AddRows(g.stopRows(m.Stops)...)

	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	doc.AddRows(g.summaryRow(m))

	out, err := doc.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + ruta (izq), fecha + QR del código (der).
func (g *RouteManifestRenderer) headerRow(m *applogistics.RouteManifest) core.Row {
	return row.New(24).Add(
		col.New(8).Add(
			text.New(pdfText(g.company), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("HOJA DE RUTA "+m.Route.Code, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
			text.New(pdfText(nonEmpty(m.Route.Name, "-")), props.Text{
				Size: 9, Top: 16, Color: colorGray,
			}),
		),
		col.New(2).Add(
			text.New("Fecha: "+m.Route.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Emitido: "+m.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
		col.New(2).Add(code.NewQr(m.Route.Code, props.Rect{Percent: 90, Center: true})),
	)
}

// resourcesRow: vehículo, conductor y zona asignados.
func resourcesRow(m *applogistics.RouteManifest) core.Row {
	vehicle, driver, zone := "-", "-", "-"
	if m.Vehicle != nil {
		vehicle = fmt.Sprintf("%s (%s %s)", m.Vehicle.Plate, m.Vehicle.Brand, m.Vehicle.Model)
	}
	if m.Driver != nil {
		driver = fmt.Sprintf("%s - Lic. %s", m.Driver.FullName(), m.Driver.LicenseNumber)
	}
	if m.Zone != nil {
		zone = m.Zone.Name
	}
	block := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(pdfText(value), props.Text{Size: 8, Top: 6}),
		)
	}
	return row.New(12).Add(
		block("VEHICULO", vehicle),
		block("CONDUCTOR", driver),
		block("ZONA", zone),
	)
}

// tableHeaderRow: cabecera de la tabla de paradas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("#", 1, align.Center),
		h("Envio", 2, align.Left),
		h("Cliente", 3, align.Left),
		h("Direccion", 3, align.Left),
		h("Total", 1, align.Right),
		h("Firma", 2, align.Center),
	)
}

// stopRows: una fila por parada, en orden de entrega.
func (g *RouteManifestRenderer) stopRows(stops []applogistics.ManifestStop) []core.Row {
	out := make([]core.Row, 0, len(stops))
	for i, s := range stops {
		customer, address, total := "-", "-", "-"
		if s.Customer != nil {
			customer = s.Customer.Name
		}
		if s.Order != nil {
			address = nonEmpty(s.Order.DeliveryAddress, "-")
			total = g.formatMoney(s.Order.Total)
		}
		shipmentCode := "-"
		if s.Shipment != nil {
			shipmentCode = s.Shipment.Code
		}
		out = append(out, row.New(9).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 8, Align: align.Center, Top: 2})),
			col.New(2).Add(text.New(shipmentCode, props.Text{Size: 8, Top: 2, Left: 1})),
			col.New(3).Add(text.New(pdfText(customer), props.Text{Size: 8, Top: 2, Left: 1})),
			col.New(3).Add(text.New(pdfText(address), props.Text{Size: 7, Top: 2, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(total, props.Text{Size: 8, Align: align.Right, Top: 2, Right: 1})),
			col.New(2).Add(text.New("______________", props.Text{Size: 8, Align: align.Center, Top: 3, Color: colorGray})),
		))
	}
	return out
}

// summaryRow: número de paradas e importe total a cobrar.
func (g *RouteManifestRenderer) summaryRow(m *applogistics.RouteManifest) core.Row {
	total := decimal.Zero
	for _, s := range m.Stops {
		if s.Order != nil {
			total = total.Add(s.Order.Total)
		}
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Paradas:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1}),
			text.New("TOTAL RUTA:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 7}),
		),
		col.New(3).Add(
			text.New(fmt.Sprint(len(m.Stops)), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}),
			text.New(g.formatMoney(total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 7}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// pdfText las fuentes core de helvetica no cubren todo UTF-8.
func pdfText(s string) string {
	return textnorm.ASCII(s)
}

// formatMoney "S/ 1,234.50" con separador de miles de la configuración regional.
func (g *RouteManifestRenderer) formatMoney(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return g.money.Sprintf("S/ %v", number.Decimal(f, number.Scale(2)))
}
