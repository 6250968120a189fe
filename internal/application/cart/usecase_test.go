package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-registradora/internal/application/cart"
	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/application/inventory"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/memory"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/records"
)

type fixture struct {
	store  *memory.RecordStore
	ledger *inventory.LedgerUseCase
	cart   *cart.UseCase
}

func newFixture(t *testing.T, policy inventory.MissingItemPolicy) *fixture {
	t.Helper()
	store := memory.NewRecordStore()
	ledger := inventory.NewLedgerUseCase(records.NewInventoryRepository(store, "inventory.csv"))
	require.NoError(t, ledger.Load(context.Background()))
	return &fixture{store: store, ledger: ledger, cart: cart.NewUseCase(ledger, policy)}
}

func (f *fixture) add(t *testing.T, name, price, stock string) string {
	t.Helper()
	item, err := f.ledger.AddItem(context.Background(), dto.AddItemRequest{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return item.ID
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	item, err := f.ledger.Get(id)
	require.NoError(t, err)
	return item.Stock
}

func TestAdd_RetiraStockYCreaLinea(t *testing.T) {
	f := newFixture(t, inventory.PolicyCreate)
	id := f.add(t, "Leche", "2.5", "10")
	saves := f.store.Saves()

	line, err := f.cart.Add(context.Background(), id, 3)
	require.NoError(t, err)
	assert.Equal(t, "Leche", line.Name)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, id, line.ItemID)
	assert.Equal(t, 7, f.stock(t, id))
	assert.Equal(t, saves+1, f.store.Saves(), "el inventario se persiste tras retirar")
}

func TestAdd_FusionaPorNombre(t *testing.T) {
	f := newFixture(t, inventory.PolicyCreate)
	first := f.add(t, "Pan", "1", "5")
	second := f.add(t, "Pan", "1.2", "5")
	ctx := context.Background()

	_, err := f.cart.Add(ctx, first, 2)
	require.NoError(t, err)
	line, err := f.cart.Add(ctx, second, 1)
	require.NoError(t, err)

	lines := f.cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 3, f.stock(t, first))
	assert.Equal(t, 4, f.stock(t, second))
}

func TestAdd_StockInsuficienteNoCambiaEstado(t *testing.T) {
	f := newFixture(t, inventory.PolicyCreate)
	id := f.add(t, "Leche", "2.5", "2")

	_, err := f.cart.Add(context.Background(), id, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.stock(t, id))
	assert.True(t, f.cart.IsEmpty())

	_, err = f.cart.Add(context.Background(), "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddRemove_SonInversos(t *testing.T) {
	f := newFixture(t, inventory.PolicyCreate)
	id := f.add(t, "Leche", "2.5", "10")
	ctx := context.Background()

	line, err := f.cart.Add(ctx, id, 4)
	require.NoError(t, err)
	remaining, err := f.cart.Remove(ctx, line.ID, 4)
	require.NoError(t, err)
	assert.Nil(t, remaining)
	assert.True(t, f.cart.IsEmpty())
	assert.Equal(t, 10, f.stock(t, id))
}

func TestRemove_Parcial(t *testing.T) {
	f := newFixture(t, inventory.PolicyCreate)
	id := f.add(t, "Leche", "2.5", "10")
	ctx := context.Background()

	line, err := f.cart.Add(ctx, id, 4)
	require.NoError(t, err)
	remaining, err := f.cart.Remove(ctx, line.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, remaining)
	assert.Equal(t, 3, remaining.Quantity)
	assert.Equal(t, 7, f.stock(t, id))
}

func TestRemove_CantidadInvalida(t *testing.T) {
	f := newFixture(t, inventory.PolicyCreate)
	id := f.add(t, "Leche", "2.5", "10")
	ctx := context.Background()
	line, err := f.cart.Add(ctx, id, 2)
	require.NoError(t, err)

	_, err = f.cart.Remove(ctx, line.ID, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.cart.Remove(ctx, line.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = f.cart.Remove(ctx, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, f.cart.Lines()[0].Quantity)
	assert.Equal(t, 8, f.stock(t, id))
}

func TestRemove_ArticuloBorradoSegunPolitica(t *testing.T) {
	ctx := context.Background()

	t.Run("fail deja todo igual", func(t *testing.T) {
		f := newFixture(t, inventory.PolicyFail)
		id := f.add(t, "Leche", "2.5", "2")
		line, err := f.cart.Add(ctx, id, 2)
		require.NoError(t, err)
		require.NoError(t, f.ledger.RemoveItem(ctx, id))

		_, err = f.cart.Remove(ctx, line.ID, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 2, f.cart.Lines()[0].Quantity)
		assert.Empty(t, f.ledger.Items())
	})

	t.Run("create vuelve a dar de alta", func(t *testing.T) {
		f := newFixture(t, inventory.PolicyCreate)
		id := f.add(t, "Leche", "2.5", "2")
		line, err := f.cart.Add(ctx, id, 2)
		require.NoError(t, err)
		require.NoError(t, f.ledger.RemoveItem(ctx, id))

		_, err = f.cart.Remove(ctx, line.ID, 2)
		require.NoError(t, err)
		items := f.ledger.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "Leche", items[0].Name)
		assert.Equal(t, 2, items[0].Stock)
	})
}

func TestAdd_ErrorDePersistenciaConservaMemoria(t *testing.T) {
	f := newFixture(t, inventory.PolicyCreate)
	id := f.add(t, "Leche", "2.5", "10")
	f.store.FailSaves(errors.New("sin espacio"))

	_, err := f.cart.Add(context.Background(), id, 1)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 9, f.stock(t, id))
	assert.Len(t, f.cart.Lines(), 1)
}

func TestClear_NoDevuelveStock(t *testing.T) {
	f := newFixture(t, inventory.PolicyCreate)
	id := f.add(t, "Leche", "2.5", "10")
	_, err := f.cart.Add(context.Background(), id, 3)
	require.NoError(t, err)

	f.cart.Clear()
	assert.True(t, f.cart.IsEmpty())
	assert.Equal(t, 7, f.stock(t, id))
}
