// Package pdf genera el comprobante de un cobro.
//
// Layout (A5 vertical):
//
//	┌───────────────────────────────────────┐
//	│  Nombre de la tienda │ Fecha del cobro │
//	│  ───────────────────────────────────  │
//	│  Cant | Artículo | P.Unit | Total     │
//	│  ───────────────────────────────────  │
//	│  Subtotal / Impuesto / Descuento      │
//	│  TOTAL                                │
//	│  QR con fecha y total                 │
//	└───────────────────────────────────────┘
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

	"github.com/jhoicas/caja-registradora/internal/application/pos"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/jhoicas/caja-registradora/internal/domain/pricing"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator genera comprobantes con Maroto v2.
type MarotoPDFGenerator struct {
	storeName string
}

// NewMarotoPDFGenerator construye el generador; storeName encabeza el comprobante.
func NewMarotoPDFGenerator(storeName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{storeName: storeName}
}

// GenerateReceiptPDF genera el PDF del cobro y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(_ context.Context, r *pos.Receipt) ([]byte, error) {
	if r == nil || len(r.Records) == 0 {
		return nil, fmt.Errorf("pdf: comprobante vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.storeName, r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(detailRows(r.Records)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))
	m.AddRows(row.New(4))
	m.AddRows(qrRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(storeName string, r *pos.Receipt) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1}),
			text.New("Comprobante de venta", props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(r.SaleDate.Format(entity.SaleDateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Cant.", 2, align.Center),
		h("Artículo", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func detailRows(records []*entity.SaleRecord) []core.Row {
	out := make([]core.Row, 0, len(records))
	for _, rec := range records {
		lineTotal := pricing.LineTotal(&entity.CartLine{UnitPrice: rec.Price, Quantity: rec.Quantity})
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%d", rec.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(rec.Name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(money(rec.Price.StringFixed(2)), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(money(lineTotal.StringFixed(2)), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return out
}

func totalsRow(r *pos.Receipt) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 8, Align: align.Right, Top: top})
	}
	grand := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 13}
	s := r.Summary
	return row.New(22).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:", 1),
			label(fmt.Sprintf("Impuesto (%s%%):", r.Pricing.TaxPercentage.String()), 5),
			label(fmt.Sprintf("Descuento (%s%%):", r.Pricing.DiscountPercentage.String()), 9),
			text.New("TOTAL:", grand),
		),
		col.New(4).Add(
			value(money(s.Subtotal.StringFixed(2)), 1),
			value(money(s.Tax.StringFixed(2)), 5),
			value(money(s.Discount.StringFixed(2)), 9),
			text.New(money(s.Total.StringFixed(2)), grand),
		),
	)
}

func qrRow(r *pos.Receipt) core.Row {
	data := fmt.Sprintf("%s|%s", r.SaleDate.Format(entity.SaleDateLayout), r.Summary.Total.StringFixed(2))
	return row.New(30).Add(
		col.New(4).Add(code.NewQr(data, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(text.New("Gracias por su compra.", props.Text{Size: 8, Top: 12, Left: 3, Color: colorGray})),
	)
}

func money(s string) string {
	return "$" + s
}
