package dto

import (
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/jhoicas/caja-registradora/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// AddToCartRequest body para POST /api/cart.
type AddToCartRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// CartLineResponse línea del carrito con su total.
type CartLineResponse struct {
	ID         string          `json:"id"`
	ItemID     string          `json:"item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
	Expiration string          `json:"expiration,omitempty"`
}

// CartSummaryResponse totales redondeados a 2 decimales para mostrar.
type CartSummaryResponse struct {
	Total              decimal.Decimal `json:"total"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Tax                decimal.Decimal `json:"tax"`
	Discount           decimal.Decimal `json:"discount"`
	TaxPercentage      decimal.Decimal `json:"tax_percentage"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// CartResponse instantánea del carrito.
type CartResponse struct {
	Lines   []CartLineResponse  `json:"lines"`
	Summary CartSummaryResponse `json:"summary"`
}

// ToCartResponse arma la instantánea con los totales ya calculados.
func ToCartResponse(lines []*entity.CartLine, s entity.CartSummary, cfg entity.PricingConfiguration) CartResponse {
	out := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartLineResponse{
			ID:         l.ID,
			ItemID:     l.ItemID,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
			LineTotal:  pricing.LineTotal(l).Round(2),
			Expiration: l.Expiration,
		})
	}
	return CartResponse{
		Lines: out,
		Summary: CartSummaryResponse{
			Total:              s.Total.Round(2),
			Subtotal:           s.Subtotal.Round(2),
			Tax:                s.Tax.Round(2),
			Discount:           s.Discount.Round(2),
			TaxPercentage:      cfg.TaxPercentage,
			DiscountPercentage: cfg.DiscountPercentage,
		},
	}
}
