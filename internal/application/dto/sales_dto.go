package dto

import (
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleRecordResponse venta registrada.
type SaleRecordResponse struct {
	ID       string          `json:"id"`
	SaleDate string          `json:"sale_date"` // YYYY-MM-DD HH:MM:SS
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SalesListResponse historial completo.
type SalesListResponse struct {
	Records []SaleRecordResponse `json:"records"`
	Total   int                  `json:"total"`
}

// CheckoutResponse resultado del cobro.
type CheckoutResponse struct {
	Records []SaleRecordResponse `json:"records"`
	Summary CartSummaryResponse  `json:"summary"`
}

// ReversalResponse resultado de anular una venta.
type ReversalResponse struct {
	Record    SaleRecordResponse `json:"record"`
	Restocked bool               `json:"restocked"`
	Created   bool               `json:"created"` // el artículo no existía y se dio de alta
	Ignored   bool               `json:"ignored"` // el artículo no existía y no se devolvió stock
}

// ToSaleRecordResponse convierte la entidad en DTO.
func ToSaleRecordResponse(r *entity.SaleRecord) SaleRecordResponse {
	return SaleRecordResponse{
		ID:       r.ID,
		SaleDate: r.SaleDate.Format(entity.SaleDateLayout),
		Name:     r.Name,
		Price:    r.Price,
		Quantity: r.Quantity,
	}
}

// ToSaleRecordResponses convierte una lista de ventas.
func ToSaleRecordResponses(records []*entity.SaleRecord) []SaleRecordResponse {
	out := make([]SaleRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToSaleRecordResponse(r))
	}
	return out
}

// SalesReportLine acumulado por nombre de artículo.
type SalesReportLine struct {
	Name    string          `json:"name"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SalesReportResponse resumen del historial de ventas.
type SalesReportResponse struct {
	Lines     []SalesReportLine `json:"lines"`
	Checkouts int               `json:"checkouts"`
	Units     int               `json:"units"`
	Revenue   decimal.Decimal   `json:"revenue"`
	Tax       decimal.Decimal   `json:"tax"`
	From      string            `json:"from,omitempty"`
	To        string            `json:"to,omitempty"`
}
