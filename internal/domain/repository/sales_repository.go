package repository

import (
	"context"

	"github.com/jhoicas/caja-registradora/internal/domain/entity"
)

// SalesRepository define el puerto de persistencia del historial de ventas.
type SalesRepository interface {
	LoadSales(ctx context.Context) ([]*entity.SaleRecord, error)
	SaveSales(ctx context.Context, sales []*entity.SaleRecord) error
}
