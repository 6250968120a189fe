package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/caja-registradora/internal/application/inventory"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockLedger lo que el carrito necesita del libro de inventario.
type StockLedger interface {
	Get(id string) (*entity.InventoryItem, error)
	Withdraw(id string, qty int) (int, error)
	CanReturn(itemID, name string, policy inventory.MissingItemPolicy) error
	ReturnStock(itemID, name string, price decimal.Decimal, qty int, policy inventory.MissingItemPolicy) (inventory.ReturnOutcome, error)
	Persist(ctx context.Context) error
}

// UseCase carrito en curso. Las unidades del carrito ya salieron del inventario.
type UseCase struct {
	ledger StockLedger
	policy inventory.MissingItemPolicy
	lines  []*entity.CartLine
}

// NewUseCase construye un carrito vacío sobre el libro indicado.
func NewUseCase(ledger StockLedger, policy inventory.MissingItemPolicy) *UseCase {
	return &UseCase{ledger: ledger, policy: policy}
}

// Add retira qty del artículo y la suma a la primera línea con el mismo nombre,
// o abre una línea nueva con precio y vencimiento del momento. Persiste el inventario.
func (uc *UseCase) Add(ctx context.Context, itemID string, qty int) (*entity.CartLine, error) {
	item, err := uc.ledger.Get(itemID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.ledger.Withdraw(itemID, qty); err != nil {
		return nil, err
	}

	line := uc.lineByName(item.Name)
	if line != nil {
		line.Quantity += qty
	} else {
		line = &entity.CartLine{
			ID:         uuid.New().String(),
			ItemID:     item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   qty,
			Expiration: item.Expiration,
		}
		uc.lines = append(uc.lines, line)
	}
	return line.Clone(), uc.ledger.Persist(ctx)
}

// Remove devuelve qty unidades de la línea al inventario. La línea desaparece al llegar a 0.
// Devuelve la línea restante (nil si se eliminó). Persiste el inventario.
func (uc *UseCase) Remove(ctx context.Context, lineID string, qty int) (*entity.CartLine, error) {
	idx := uc.indexOf(lineID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: línea %q", domain.ErrNotFound, lineID)
	}
	line := uc.lines[idx]
	if qty <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}
	if qty > line.Quantity {
		return nil, fmt.Errorf("%w: la línea %q tiene %d, se pidieron %d", domain.ErrInsufficientStock, line.Name, line.Quantity, qty)
	}
	if err := uc.ledger.CanReturn(line.ItemID, line.Name, uc.policy); err != nil {
		return nil, err
	}

	if _, err := uc.ledger.ReturnStock(line.ItemID, line.Name, line.UnitPrice, qty, uc.policy); err != nil {
		return nil, err
	}
	line.Quantity -= qty
	var remaining *entity.CartLine
	if line.Quantity == 0 {
		uc.lines = append(uc.lines[:idx], uc.lines[idx+1:]...)
	} else {
		remaining = line.Clone()
	}
	return remaining, uc.ledger.Persist(ctx)
}

// Clear vacía el carrito sin devolver stock. Solo lo usa el cobro.
func (uc *UseCase) Clear() {
	uc.lines = nil
}

// Lines copia de las líneas en orden de alta.
func (uc *UseCase) Lines() []*entity.CartLine {
	out := make([]*entity.CartLine, 0, len(uc.lines))
	for _, l := range uc.lines {
		out = append(out, l.Clone())
	}
	return out
}

// IsEmpty indica si no hay líneas.
func (uc *UseCase) IsEmpty() bool {
	return len(uc.lines) == 0
}

func (uc *UseCase) lineByName(name string) *entity.CartLine {
	for _, l := range uc.lines {
		if l.Name == name {
			return l
		}
	}
	return nil
}

func (uc *UseCase) indexOf(lineID string) int {
	for i, l := range uc.lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}
