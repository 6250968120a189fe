package dto

import "github.com/jhoicas/caja-registradora/internal/domain/entity"

// UpdatePreferencesRequest body para PUT /api/preferences. Ambos valores como texto del operador.
type UpdatePreferencesRequest struct {
	TaxPercentage      string `json:"tax_percentage" validate:"required"`
	DiscountPercentage string `json:"discount_percentage" validate:"required"`
}

// PreferencesResponse configuración de precios vigente.
type PreferencesResponse struct {
	TaxPercentage      string `json:"tax_percentage"`
	DiscountPercentage string `json:"discount_percentage"`
}

// ToPreferencesResponse convierte la configuración en DTO.
func ToPreferencesResponse(cfg entity.PricingConfiguration) PreferencesResponse {
	return PreferencesResponse{
		TaxPercentage:      cfg.TaxPercentage.String(),
		DiscountPercentage: cfg.DiscountPercentage.String(),
	}
}
