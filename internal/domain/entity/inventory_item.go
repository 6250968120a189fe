package entity

import "github.com/shopspring/decimal"

// InventoryItem representa un artículo del inventario de la tienda.
// Name es la llave visible para el operador pero puede repetirse; la identidad es ID
// (generado al crear o al cargar, no se persiste).
type InventoryItem struct {
	ID         string
	Name       string
	Price      decimal.Decimal // precio unitario de venta
	Stock      int
	Expiration string // etiqueta libre; vacío = sin vencimiento
}

// Clone devuelve una copia independiente del artículo.
func (i *InventoryItem) Clone() *InventoryItem {
	c := *i
	return &c
}
