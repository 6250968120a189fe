package records

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Columnas del recurso de inventario.
const (
	ColName       = "Name"
	ColPrice      = "Price"
	ColStock      = "Stock"
	ColExpiration = "Expiration"
)

// InventoryFields orden de columnas del recurso de inventario.
var InventoryFields = []string{ColName, ColPrice, ColStock, ColExpiration}

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre cualquier RecordStore.
type InventoryRepo struct {
	store    repository.RecordStore
	resource string
}

// NewInventoryRepository construye el adaptador para el recurso indicado (ej. "inventory.csv").
func NewInventoryRepository(store repository.RecordStore, resource string) *InventoryRepo {
	return &InventoryRepo{store: store, resource: resource}
}

// LoadItems carga el inventario completo. Cada artículo recibe un ID nuevo.
func (r *InventoryRepo) LoadItems(ctx context.Context) ([]*entity.InventoryItem, error) {
	rows, err := r.store.Load(ctx, r.resource)
	if err != nil {
		return nil, err
	}
	items := make([]*entity.InventoryItem, 0, len(rows))
	for i, row := range rows {
		item, err := DecodeInventoryItem(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s fila %d: %v", domain.ErrPersistence, r.resource, i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// SaveItems reescribe el recurso con todos los artículos.
func (r *InventoryRepo) SaveItems(ctx context.Context, items []*entity.InventoryItem) error {
	rows := make([]repository.Record, 0, len(items))
	for _, item := range items {
		rows = append(rows, EncodeInventoryItem(item))
	}
	return r.store.Save(ctx, r.resource, rows, InventoryFields)
}

// EncodeInventoryItem convierte el artículo en fila.
func EncodeInventoryItem(item *entity.InventoryItem) repository.Record {
	return repository.Record{
		ColName:       item.Name,
		ColPrice:      item.Price.String(),
		ColStock:      strconv.Itoa(item.Stock),
		ColExpiration: item.Expiration,
	}
}

// DecodeInventoryItem interpreta una fila de inventario.
func DecodeInventoryItem(row repository.Record) (*entity.InventoryItem, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(row[ColPrice]))
	if err != nil {
		return nil, fmt.Errorf("precio %q inválido", row[ColPrice])
	}
	stock := 0
	if s := strings.TrimSpace(row[ColStock]); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("stock %q inválido", row[ColStock])
		}
	}
	return &entity.InventoryItem{
		ID:         uuid.New().String(),
		Name:       row[ColName],
		Price:      price,
		Stock:      stock,
		Expiration: row[ColExpiration],
	}, nil
}
