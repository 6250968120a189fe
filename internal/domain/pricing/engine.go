package pricing

import (
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineTotal = PrecioUnitario * Cantidad.
func LineTotal(line *entity.CartLine) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// Summarize calcula los totales del carrito con precios que ya incluyen impuesto (servicio de dominio).
//
//	Total     = Σ LineTotal
//	Subtotal  = Total / (1 + Impuesto/100)
//	Impuesto  = Total - Subtotal
//	Descuento = Total * (Descuento/100)   (informativo, no se resta del total)
//
// Si 1 + Impuesto/100 es cero no hay forma de extraer el impuesto: Subtotal = Total e Impuesto = 0.
func Summarize(lines []*entity.CartLine, cfg entity.PricingConfiguration) entity.CartSummary {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line))
	}

	subtotal := total
	divisor := decimal.NewFromInt(1).Add(cfg.TaxPercentage.Div(hundred))
	if !divisor.IsZero() {
		subtotal = total.Div(divisor)
	}

	return entity.CartSummary{
		Total:    total,
		Subtotal: subtotal,
		Tax:      total.Sub(subtotal),
		Discount: total.Mul(cfg.DiscountPercentage.Div(hundred)),
	}
}
