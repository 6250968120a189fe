package records

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ColSaleDate columna de fecha del recurso de ventas. "Stock" en ventas es la cantidad vendida.
const ColSaleDate = "Sale Date"

// SalesFields orden de columnas del recurso de ventas.
var SalesFields = []string{ColSaleDate, ColName, ColPrice, ColStock}

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo implementación de SalesRepository sobre cualquier RecordStore.
type SalesRepo struct {
	store    repository.RecordStore
	resource string
}

// NewSalesRepository construye el adaptador para el recurso indicado (ej. "sales.csv").
func NewSalesRepository(store repository.RecordStore, resource string) *SalesRepo {
	return &SalesRepo{store: store, resource: resource}
}

// LoadSales carga el historial completo en el orden del recurso.
func (r *SalesRepo) LoadSales(ctx context.Context) ([]*entity.SaleRecord, error) {
	rows, err := r.store.Load(ctx, r.resource)
	if err != nil {
		return nil, err
	}
	sales := make([]*entity.SaleRecord, 0, len(rows))
	for i, row := range rows {
		sale, err := DecodeSaleRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s fila %d: %v", domain.ErrPersistence, r.resource, i+1, err)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// SaveSales reescribe el recurso con todo el historial.
func (r *SalesRepo) SaveSales(ctx context.Context, sales []*entity.SaleRecord) error {
	rows := make([]repository.Record, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, EncodeSaleRecord(s))
	}
	return r.store.Save(ctx, r.resource, rows, SalesFields)
}

// EncodeSaleRecord convierte el registro en fila.
func EncodeSaleRecord(s *entity.SaleRecord) repository.Record {
	return repository.Record{
		ColSaleDate: s.SaleDate.Format(entity.SaleDateLayout),
		ColName:     s.Name,
		ColPrice:    s.Price.String(),
		ColStock:    strconv.Itoa(s.Quantity),
	}
}

// DecodeSaleRecord interpreta una fila de ventas (fecha en hora local).
func DecodeSaleRecord(row repository.Record) (*entity.SaleRecord, error) {
	date, err := time.ParseInLocation(entity.SaleDateLayout, strings.TrimSpace(row[ColSaleDate]), time.Local)
	if err != nil {
		return nil, fmt.Errorf("fecha %q inválida", row[ColSaleDate])
	}
	price, err := decimal.NewFromString(strings.TrimSpace(row[ColPrice]))
	if err != nil {
		return nil, fmt.Errorf("precio %q inválido", row[ColPrice])
	}
	qty, err := strconv.Atoi(strings.TrimSpace(row[ColStock]))
	if err != nil {
		return nil, fmt.Errorf("cantidad %q inválida", row[ColStock])
	}
	return &entity.SaleRecord{
		ID:       uuid.New().String(),
		SaleDate: date,
		Name:     row[ColName],
		Price:    price,
		Quantity: qty,
	}, nil
}
