package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MissingItemPolicy decide qué hacer cuando se devuelve stock de un artículo que ya no está en el libro.
type MissingItemPolicy string

const (
	// PolicyCreate da de alta un artículo nuevo con el nombre, precio y cantidad devueltos.
	PolicyCreate MissingItemPolicy = "create"
	// PolicyFail rechaza la devolución con ErrNotFound sin tocar el estado.
	PolicyFail MissingItemPolicy = "fail"
	// PolicyIgnore descarta la cantidad devuelta.
	PolicyIgnore MissingItemPolicy = "ignore"
)

// ParseMissingItemPolicy interpreta REVERSAL_POLICY. Vacío equivale a create.
func ParseMissingItemPolicy(s string) (MissingItemPolicy, error) {
	switch p := MissingItemPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyCreate, nil
	case PolicyCreate, PolicyFail, PolicyIgnore:
		return p, nil
	default:
		return "", fmt.Errorf("%w: política de devolución %q desconocida", domain.ErrValidation, s)
	}
}

// ReturnOutcome resume dónde terminó una devolución de stock.
type ReturnOutcome struct {
	Restocked bool
	Created   bool
	Ignored   bool
}

// CanReturn indica si una devolución con esta política tendría destino.
// Permite comprobar la política antes de mutar otras estructuras.
func (l *LedgerUseCase) CanReturn(itemID, name string, policy MissingItemPolicy) error {
	if l.locate(itemID, name) != nil || policy != PolicyFail {
		return nil
	}
	return fmt.Errorf("%w: el artículo %q ya no está en el inventario", domain.ErrNotFound, name)
}

// ReturnStock devuelve qty al artículo de origen: primero por ID, luego por el primer nombre igual.
// Si ninguno existe aplica la política. No persiste.
func (l *LedgerUseCase) ReturnStock(itemID, name string, price decimal.Decimal, qty int, policy MissingItemPolicy) (ReturnOutcome, error) {
	if qty <= 0 {
		return ReturnOutcome{}, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}
	if item := l.locate(itemID, name); item != nil {
		item.Stock += qty
		return ReturnOutcome{Restocked: true}, nil
	}
	switch policy {
	case PolicyIgnore:
		return ReturnOutcome{Ignored: true}, nil
	case PolicyFail:
		return ReturnOutcome{}, l.CanReturn(itemID, name, policy)
	default:
		l.Insert(name, price, qty, "")
		return ReturnOutcome{Created: true}, nil
	}
}

func (l *LedgerUseCase) locate(itemID, name string) *entity.InventoryItem {
	if itemID != "" {
		if item, _, err := l.find(itemID); err == nil {
			return item
		}
	}
	for _, item := range l.items {
		if item.Name == name {
			return item
		}
	}
	return nil
}
