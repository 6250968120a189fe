package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/caja-registradora/internal/application/inventory"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockLedger lo que el historial de ventas necesita del inventario.
type StockLedger interface {
	CanReturn(itemID, name string, policy inventory.MissingItemPolicy) error
	ReturnStock(itemID, name string, price decimal.Decimal, qty int, policy inventory.MissingItemPolicy) (inventory.ReturnOutcome, error)
	Persist(ctx context.Context) error
}

// Cart carrito que se cobra.
type Cart interface {
	Lines() []*entity.CartLine
	Clear()
}

// Clock permite fijar la hora del cobro en tests.
type Clock func() time.Time

// UseCase historial de ventas: cobro y reversión.
type UseCase struct {
	repo    repository.SalesRepository
	ledger  StockLedger
	cart    Cart
	policy  inventory.MissingItemPolicy
	now     Clock
	records []*entity.SaleRecord
}

// NewUseCase construye el historial. clock nil usa time.Now.
func NewUseCase(repo repository.SalesRepository, ledger StockLedger, cart Cart, policy inventory.MissingItemPolicy, clock Clock) *UseCase {
	if clock == nil {
		clock = time.Now
	}
	return &UseCase{repo: repo, ledger: ledger, cart: cart, policy: policy, now: clock}
}

// Load reemplaza el historial en memoria por el persistido.
func (uc *UseCase) Load(ctx context.Context) error {
	records, err := uc.repo.LoadSales(ctx)
	if err != nil {
		return domain.AsPersistence(err)
	}
	uc.records = records
	return nil
}

// Checkout registra una venta por línea del carrito, todas con la misma fecha.
// Vacía el carrito sin devolver stock y vuelve a guardar el inventario.
// Con el carrito vacío devuelve ErrEmptyCart sin escribir nada.
func (uc *UseCase) Checkout(ctx context.Context) ([]*entity.SaleRecord, error) {
	lines := uc.cart.Lines()
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// La columna guarda segundos: truncar deja iguales memoria y archivo.
	at := uc.now().Truncate(time.Second)
	created := make([]*entity.SaleRecord, 0, len(lines))
	for _, line := range lines {
		rec := &entity.SaleRecord{
			ID:       uuid.New().String(),
			SaleDate: at,
			Name:     line.Name,
			Price:    line.UnitPrice,
			Quantity: line.Quantity,
		}
		uc.records = append(uc.records, rec)
		created = append(created, rec.Clone())
	}

	saveErr := uc.persist(ctx)
	uc.cart.Clear()
	if err := uc.ledger.Persist(ctx); err != nil && saveErr == nil {
		saveErr = err
	}
	return created, saveErr
}

// Reverse anula una venta: la quita del historial y devuelve su cantidad al primer
// artículo con el mismo nombre. Si el artículo ya no existe decide la política.
func (uc *UseCase) Reverse(ctx context.Context, saleID string) (*entity.SaleRecord, inventory.ReturnOutcome, error) {
	idx := uc.indexOf(saleID)
	if idx < 0 {
		return nil, inventory.ReturnOutcome{}, fmt.Errorf("%w: venta %q", domain.ErrNotFound, saleID)
	}
	rec := uc.records[idx]
	if err := uc.ledger.CanReturn("", rec.Name, uc.policy); err != nil {
		return nil, inventory.ReturnOutcome{}, err
	}

	uc.records = append(uc.records[:idx], uc.records[idx+1:]...)
	saveErr := uc.persist(ctx)

	var outcome inventory.ReturnOutcome
	if rec.Quantity > 0 {
		var err error
		outcome, err = uc.ledger.ReturnStock("", rec.Name, rec.Price, rec.Quantity, uc.policy)
		if err != nil && saveErr == nil {
			saveErr = err
		}
	}
	if err := uc.ledger.Persist(ctx); err != nil && saveErr == nil {
		saveErr = err
	}
	return rec.Clone(), outcome, saveErr
}

// Records copia del historial en orden de registro.
func (uc *UseCase) Records() []*entity.SaleRecord {
	out := make([]*entity.SaleRecord, 0, len(uc.records))
	for _, r := range uc.records {
		out = append(out, r.Clone())
	}
	return out
}

// Receipt todas las ventas del mismo cobro que saleID (misma fecha).
func (uc *UseCase) Receipt(saleID string) ([]*entity.SaleRecord, error) {
	idx := uc.indexOf(saleID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: venta %q", domain.ErrNotFound, saleID)
	}
	at := uc.records[idx].SaleDate
	var out []*entity.SaleRecord
	for _, r := range uc.records {
		if r.SaleDate.Equal(at) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (uc *UseCase) persist(ctx context.Context) error {
	return domain.AsPersistence(uc.repo.SaveSales(ctx, uc.records))
}

func (uc *UseCase) indexOf(saleID string) int {
	for i, r := range uc.records {
		if r.ID == saleID {
			return i
		}
	}
	return -1
}
