package entity

import "github.com/shopspring/decimal"

// PricingConfiguration porcentajes de impuesto y descuento vigentes en la sesión.
// No se persiste: al reiniciar vuelve a los valores de configuración.
type PricingConfiguration struct {
	TaxPercentage      decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// DefaultPricingConfiguration IVA 12% incluido en precio, sin descuento.
func DefaultPricingConfiguration() PricingConfiguration {
	return PricingConfiguration{
		TaxPercentage:      decimal.NewFromInt(12),
		DiscountPercentage: decimal.Zero,
	}
}

// CartSummary totales derivados del carrito.
// Total ya incluye el impuesto; Discount es informativo y no se resta de Total.
type CartSummary struct {
	Total    decimal.Decimal
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
}
