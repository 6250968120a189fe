package entity

import "github.com/shopspring/decimal"

// CartLine cantidad de un artículo retirada del inventario y aún no vendida.
// UnitPrice es una foto del precio al momento del retiro.
type CartLine struct {
	ID         string
	ItemID     string // artículo de inventario del que se retiró la primera cantidad
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   int
	Expiration string
}

// Clone devuelve una copia independiente de la línea.
func (l *CartLine) Clone() *CartLine {
	c := *l
	return &c
}
