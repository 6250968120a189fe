package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleDateLayout formato de la columna "Sale Date" (YYYY-MM-DD HH:MM:SS).
const SaleDateLayout = "2006-01-02 15:04:05"

// SaleRecord hecho histórico de venta: una fila por línea de carrito en cada checkout.
// Todas las filas de un mismo checkout comparten SaleDate.
type SaleRecord struct {
	ID       string
	SaleDate time.Time
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// Clone devuelve una copia independiente del registro.
func (s *SaleRecord) Clone() *SaleRecord {
	c := *s
	return &c
}
