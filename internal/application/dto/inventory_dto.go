package dto

import (
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AddItemRequest body para POST /api/inventory.
// Precio y stock llegan como texto del operador; el libro los interpreta y valida.
type AddItemRequest struct {
	Name       string `json:"name" validate:"required"`
	Price      string `json:"price" validate:"required"`
	Stock      string `json:"stock"` // vacío = 0
	Expiration string `json:"expiration"`
}

// EditItemRequest body para PUT /api/inventory/:id. Campos nulos no se modifican.
type EditItemRequest struct {
	Price      *decimal.Decimal `json:"price"`
	Stock      *int             `json:"stock"`
	Expiration *string          `json:"expiration"` // "" se trata como no enviado
}

// AdjustStockRequest body para PATCH /api/inventory/:id/stock.
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

// InventoryItemResponse salida de un artículo.
type InventoryItemResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	Expiration string          `json:"expiration,omitempty"`
}

// InventoryListResponse listado completo del inventario.
type InventoryListResponse struct {
	Items []InventoryItemResponse `json:"items"`
	Total int                     `json:"total"`
}

// ToInventoryItemResponse convierte la entidad en DTO.
func ToInventoryItemResponse(i *entity.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:         i.ID,
		Name:       i.Name,
		Price:      i.Price,
		Stock:      i.Stock,
		Expiration: i.Expiration,
	}
}

// ToInventoryListResponse convierte una lista de artículos.
func ToInventoryListResponse(items []*entity.InventoryItem) InventoryListResponse {
	out := make([]InventoryItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ToInventoryItemResponse(i))
	}
	return InventoryListResponse{Items: out, Total: len(out)}
}
