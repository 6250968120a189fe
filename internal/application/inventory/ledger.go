package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LedgerUseCase libro de inventario: dueño de los artículos en stock.
// Mantiene el orden de alta; las búsquedas son por ID.
// No es seguro para uso concurrente: pos.Session serializa las llamadas.
type LedgerUseCase struct {
	repo  repository.InventoryRepository
	items []*entity.InventoryItem
}

// NewLedgerUseCase construye el libro vacío. Llamar Load para traer el inventario persistido.
func NewLedgerUseCase(repo repository.InventoryRepository) *LedgerUseCase {
	return &LedgerUseCase{repo: repo}
}

// Load reemplaza el contenido en memoria por el inventario persistido.
func (l *LedgerUseCase) Load(ctx context.Context) error {
	items, err := l.repo.LoadItems(ctx)
	if err != nil {
		return domain.AsPersistence(err)
	}
	l.items = items
	return nil
}

// Persist guarda el inventario completo.
func (l *LedgerUseCase) Persist(ctx context.Context) error {
	return domain.AsPersistence(l.repo.SaveItems(ctx, l.items))
}

// Items devuelve una copia del inventario en orden de alta.
func (l *LedgerUseCase) Items() []*entity.InventoryItem {
	out := make([]*entity.InventoryItem, 0, len(l.items))
	for _, i := range l.items {
		out = append(out, i.Clone())
	}
	return out
}

// Get devuelve una copia del artículo o ErrNotFound.
func (l *LedgerUseCase) Get(id string) (*entity.InventoryItem, error) {
	item, _, err := l.find(id)
	if err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

// AddItem interpreta la entrada del operador, agrega un artículo nuevo y persiste.
// Nombre y precio son obligatorios; el precio debe ser un número >= 0 y el stock un entero >= 0
// (vacío = 0). No se fusiona con artículos del mismo nombre.
func (l *LedgerUseCase) AddItem(ctx context.Context, in dto.AddItemRequest) (*entity.InventoryItem, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return nil, fmt.Errorf("%w: precio %q no es numérico", domain.ErrValidation, in.Price)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrValidation)
	}
	stock := 0
	if s := strings.TrimSpace(in.Stock); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: stock %q no es un entero", domain.ErrValidation, in.Stock)
		}
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrValidation)
	}

	item := l.Insert(in.Name, price, stock, in.Expiration)
	return item.Clone(), l.Persist(ctx)
}

// Insert agrega un artículo ya validado al final del libro sin persistir.
func (l *LedgerUseCase) Insert(name string, price decimal.Decimal, stock int, expiration string) *entity.InventoryItem {
	item := &entity.InventoryItem{
		ID:         uuid.New().String(),
		Name:       name,
		Price:      price,
		Stock:      stock,
		Expiration: expiration,
	}
	l.items = append(l.items, item)
	return item
}

// Withdraw retira qty del stock del artículo (0 < qty <= stock). No persiste: el llamador decide.
func (l *LedgerUseCase) Withdraw(id string, qty int) (int, error) {
	item, _, err := l.find(id)
	if err != nil {
		return 0, err
	}
	if qty <= 0 {
		return 0, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}
	if qty > item.Stock {
		return 0, fmt.Errorf("%w: %q tiene %d, se pidieron %d", domain.ErrInsufficientStock, item.Name, item.Stock, qty)
	}
	item.Stock -= qty
	return qty, nil
}

// Restock suma qty (> 0) al stock del artículo. No persiste.
func (l *LedgerUseCase) Restock(id string, qty int) error {
	item, _, err := l.find(id)
	if err != nil {
		return err
	}
	if qty <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}
	item.Stock += qty
	return nil
}

// RestockByName suma qty al primer artículo con ese nombre. Indica si lo encontró. No persiste.
func (l *LedgerUseCase) RestockByName(name string, qty int) bool {
	for _, item := range l.items {
		if item.Name == name {
			item.Stock += qty
			return true
		}
	}
	return false
}

// AdjustStock suma delta (positivo o negativo) al stock; el resultado no puede quedar negativo. Persiste.
func (l *LedgerUseCase) AdjustStock(ctx context.Context, id string, delta int) (*entity.InventoryItem, error) {
	item, _, err := l.find(id)
	if err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrValidation)
	}
	if item.Stock+delta < 0 {
		return nil, fmt.Errorf("%w: %q tiene %d, ajuste %d", domain.ErrInsufficientStock, item.Name, item.Stock, delta)
	}
	item.Stock += delta
	return item.Clone(), l.Persist(ctx)
}

// DeleteQuantity descarta qty unidades del artículo. Si agota el stock exactamente,
// el artículo sale del libro. Devuelve true si fue eliminado. Persiste.
func (l *LedgerUseCase) DeleteQuantity(ctx context.Context, id string, qty int) (bool, error) {
	item, idx, err := l.find(id)
	if err != nil {
		return false, err
	}
	if qty <= 0 {
		return false, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}
	if qty > item.Stock {
		return false, fmt.Errorf("%w: %q tiene %d, se pidieron %d", domain.ErrInsufficientStock, item.Name, item.Stock, qty)
	}
	item.Stock -= qty
	removed := item.Stock == 0
	if removed {
		l.removeAt(idx)
	}
	return removed, l.Persist(ctx)
}

// RemoveItem elimina el artículo sin importar su stock. Persiste.
func (l *LedgerUseCase) RemoveItem(ctx context.Context, id string) error {
	_, idx, err := l.find(id)
	if err != nil {
		return err
	}
	l.removeAt(idx)
	return l.Persist(ctx)
}

// Edit modifica los campos enviados y deja el resto igual. Persiste.
// Precio y stock no se validan contra negativos, y un stock 0 no elimina el artículo.
func (l *LedgerUseCase) Edit(ctx context.Context, id string, in dto.EditItemRequest) (*entity.InventoryItem, error) {
	item, _, err := l.find(id)
	if err != nil {
		return nil, err
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Stock != nil {
		item.Stock = *in.Stock
	}
	if in.Expiration != nil && *in.Expiration != "" {
		item.Expiration = *in.Expiration
	}
	return item.Clone(), l.Persist(ctx)
}

func (l *LedgerUseCase) find(id string) (*entity.InventoryItem, int, error) {
	for i, item := range l.items {
		if item.ID == id {
			return item, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: artículo %q", domain.ErrNotFound, id)
}

func (l *LedgerUseCase) removeAt(idx int) {
	l.items = append(l.items[:idx], l.items[idx+1:]...)
}
