package repository

import (
	"context"

	"github.com/jhoicas/caja-registradora/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia del libro de inventario.
// Se guarda y se carga el libro completo (no hay escrituras parciales).
type InventoryRepository interface {
	LoadItems(ctx context.Context) ([]*entity.InventoryItem, error)
	SaveItems(ctx context.Context, items []*entity.InventoryItem) error
}
