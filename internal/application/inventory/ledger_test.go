package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/application/inventory"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/memory"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/records"
)

const resource = "inventory.csv"

func newLedger(t *testing.T) (*inventory.LedgerUseCase, *memory.RecordStore) {
	t.Helper()
	store := memory.NewRecordStore()
	ledger := inventory.NewLedgerUseCase(records.NewInventoryRepository(store, resource))
	require.NoError(t, ledger.Load(context.Background()))
	return ledger, store
}

func addItem(t *testing.T, l *inventory.LedgerUseCase, name, price, stock string) string {
	t.Helper()
	item, err := l.AddItem(context.Background(), dto.AddItemRequest{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return item.ID
}

func TestAddItem_PersisteYRecarga(t *testing.T) {
	ctx := context.Background()
	ledger, store := newLedger(t)

	item, err := ledger.AddItem(ctx, dto.AddItemRequest{Name: "Leche", Price: " 2.50 ", Stock: "10", Expiration: "2026-12-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.True(t, decimal.RequireFromString("2.5").Equal(item.Price))

	reloaded := inventory.NewLedgerUseCase(records.NewInventoryRepository(store, resource))
	require.NoError(t, reloaded.Load(ctx))
	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Leche", items[0].Name)
	assert.Equal(t, 10, items[0].Stock)
	assert.Equal(t, "2026-12-01", items[0].Expiration)
	assert.Equal(t, []string{"Name", "Price", "Stock", "Expiration"}, store.Fields(resource))
}

func TestAddItem_StockVacioEsCero(t *testing.T) {
	ledger, _ := newLedger(t)
	item, err := ledger.AddItem(context.Background(), dto.AddItemRequest{Name: "Pan", Price: "1"})
	require.NoError(t, err)
	assert.Equal(t, 0, item.Stock)
}

func TestAddItem_NoFusionaDuplicados(t *testing.T) {
	ledger, _ := newLedger(t)
	addItem(t, ledger, "Pan", "1", "2")
	addItem(t, ledger, "Pan", "1.5", "3")
	assert.Len(t, ledger.Items(), 2)
}

func TestAddItem_EntradaInvalida(t *testing.T) {
	cases := []struct {
		name string
		in   dto.AddItemRequest
	}{
		{"sin nombre", dto.AddItemRequest{Price: "1"}},
		{"sin precio", dto.AddItemRequest{Name: "Pan"}},
		{"precio no numérico", dto.AddItemRequest{Name: "Pan", Price: "uno"}},
		{"precio negativo", dto.AddItemRequest{Name: "Pan", Price: "-1"}},
		{"stock no entero", dto.AddItemRequest{Name: "Pan", Price: "1", Stock: "2.5"}},
		{"stock negativo", dto.AddItemRequest{Name: "Pan", Price: "1", Stock: "-3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger, store := newLedger(t)
			_, err := ledger.AddItem(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, ledger.Items())
			assert.Zero(t, store.Saves())
		})
	}
}

func TestWithdrawRestock_SonInversos(t *testing.T) {
	ledger, _ := newLedger(t)
	id := addItem(t, ledger, "Leche", "2.5", "10")

	n, err := ledger.Withdraw(id, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, ledger.Restock(id, 4))

	item, err := ledger.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Stock)
}

func TestWithdraw_StockInsuficienteNoCambiaEstado(t *testing.T) {
	ledger, _ := newLedger(t)
	id := addItem(t, ledger, "Leche", "2.5", "3")

	_, err := ledger.Withdraw(id, 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = ledger.Withdraw(id, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	item, _ := ledger.Get(id)
	assert.Equal(t, 3, item.Stock)
}

func TestWithdraw_HastaCeroNoEliminaArticulo(t *testing.T) {
	ledger, _ := newLedger(t)
	id := addItem(t, ledger, "Leche", "2.5", "3")

	_, err := ledger.Withdraw(id, 3)
	require.NoError(t, err)
	item, err := ledger.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Stock)
}

func TestGet_IDDesconocido(t *testing.T) {
	ledger, _ := newLedger(t)
	_, err := ledger.Get("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRestockByName_PrimeraCoincidencia(t *testing.T) {
	ledger, _ := newLedger(t)
	first := addItem(t, ledger, "Pan", "1", "1")
	second := addItem(t, ledger, "Pan", "1", "1")

	assert.True(t, ledger.RestockByName("Pan", 5))
	assert.False(t, ledger.RestockByName("Queso", 5))

	a, _ := ledger.Get(first)
	b, _ := ledger.Get(second)
	assert.Equal(t, 6, a.Stock)
	assert.Equal(t, 1, b.Stock)
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newLedger(t)
	id := addItem(t, ledger, "Leche", "2.5", "5")

	item, err := ledger.AdjustStock(ctx, id, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Stock)

	_, err = ledger.AdjustStock(ctx, id, -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = ledger.AdjustStock(ctx, id, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	item, err = ledger.AdjustStock(ctx, id, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Stock)
}

func TestDeleteQuantity_AgotarExactoElimina(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newLedger(t)
	id := addItem(t, ledger, "Leche", "2.5", "5")

	removed, err := ledger.DeleteQuantity(ctx, id, 2)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = ledger.DeleteQuantity(ctx, id, 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	removed, err = ledger.DeleteQuantity(ctx, id, 3)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, ledger.Items())
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newLedger(t)
	id := addItem(t, ledger, "Leche", "2.5", "5")
	keep := addItem(t, ledger, "Pan", "1", "1")

	require.NoError(t, ledger.RemoveItem(ctx, id))
	items := ledger.Items()
	require.Len(t, items, 1)
	assert.Equal(t, keep, items[0].ID)
	assert.ErrorIs(t, ledger.RemoveItem(ctx, id), domain.ErrNotFound)
}

func TestEdit_SoloStockConservaPrecioYVencimiento(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newLedger(t)
	item, err := ledger.AddItem(ctx, dto.AddItemRequest{Name: "Leche", Price: "2.5", Stock: "5", Expiration: "2026-12-01"})
	require.NoError(t, err)

	stock := 9
	edited, err := ledger.Edit(ctx, item.ID, dto.EditItemRequest{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 9, edited.Stock)
	assert.True(t, item.Price.Equal(edited.Price))
	assert.Equal(t, "2026-12-01", edited.Expiration)
}

func TestEdit_VencimientoVacioNoCambia(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newLedger(t)
	item, err := ledger.AddItem(ctx, dto.AddItemRequest{Name: "Leche", Price: "2.5", Expiration: "2026-12-01"})
	require.NoError(t, err)

	empty := ""
	edited, err := ledger.Edit(ctx, item.ID, dto.EditItemRequest{Expiration: &empty})
	require.NoError(t, err)
	assert.Equal(t, "2026-12-01", edited.Expiration)
}

func TestEdit_NoValidaNegativosNiEliminaEnCero(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newLedger(t)
	id := addItem(t, ledger, "Leche", "2.5", "5")

	price := decimal.NewFromInt(-1)
	zero := 0
	edited, err := ledger.Edit(ctx, id, dto.EditItemRequest{Price: &price, Stock: &zero})
	require.NoError(t, err)
	assert.True(t, price.Equal(edited.Price))
	assert.Len(t, ledger.Items(), 1)

	negative := -2
	edited, err = ledger.Edit(ctx, id, dto.EditItemRequest{Stock: &negative})
	require.NoError(t, err)
	assert.Equal(t, -2, edited.Stock)
}

func TestPersist_ErrorNoRevierteMemoria(t *testing.T) {
	ctx := context.Background()
	ledger, store := newLedger(t)
	id := addItem(t, ledger, "Leche", "2.5", "5")

	store.FailSaves(errors.New("disco lleno"))
	_, err := ledger.AdjustStock(ctx, id, 3)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	item, _ := ledger.Get(id)
	assert.Equal(t, 8, item.Stock)

	store.FailSaves(nil)
	require.NoError(t, ledger.Persist(ctx))
	reloaded := inventory.NewLedgerUseCase(records.NewInventoryRepository(store, resource))
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 8, reloaded.Items()[0].Stock)
}

func TestParseMissingItemPolicy(t *testing.T) {
	p, err := inventory.ParseMissingItemPolicy("")
	require.NoError(t, err)
	assert.Equal(t, inventory.PolicyCreate, p)

	p, err = inventory.ParseMissingItemPolicy(" FAIL ")
	require.NoError(t, err)
	assert.Equal(t, inventory.PolicyFail, p)

	_, err = inventory.ParseMissingItemPolicy("borrar")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReturnStock_Politicas(t *testing.T) {
	price := decimal.NewFromInt(3)

	t.Run("por id", func(t *testing.T) {
		ledger, _ := newLedger(t)
		id := addItem(t, ledger, "Pan", "1", "1")
		out, err := ledger.ReturnStock(id, "Otro nombre", price, 2, inventory.PolicyFail)
		require.NoError(t, err)
		assert.True(t, out.Restocked)
		item, _ := ledger.Get(id)
		assert.Equal(t, 3, item.Stock)
	})

	t.Run("por nombre", func(t *testing.T) {
		ledger, _ := newLedger(t)
		id := addItem(t, ledger, "Pan", "1", "1")
		out, err := ledger.ReturnStock("", "Pan", price, 2, inventory.PolicyFail)
		require.NoError(t, err)
		assert.True(t, out.Restocked)
		item, _ := ledger.Get(id)
		assert.Equal(t, 3, item.Stock)
	})

	t.Run("create", func(t *testing.T) {
		ledger, _ := newLedger(t)
		out, err := ledger.ReturnStock("borrado", "Queso", price, 2, inventory.PolicyCreate)
		require.NoError(t, err)
		assert.True(t, out.Created)
		items := ledger.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "Queso", items[0].Name)
		assert.Equal(t, 2, items[0].Stock)
		assert.True(t, price.Equal(items[0].Price))
	})

	t.Run("fail", func(t *testing.T) {
		ledger, _ := newLedger(t)
		assert.ErrorIs(t, ledger.CanReturn("borrado", "Queso", inventory.PolicyFail), domain.ErrNotFound)
		_, err := ledger.ReturnStock("borrado", "Queso", price, 2, inventory.PolicyFail)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, ledger.Items())
	})

	t.Run("ignore", func(t *testing.T) {
		ledger, _ := newLedger(t)
		out, err := ledger.ReturnStock("borrado", "Queso", price, 2, inventory.PolicyIgnore)
		require.NoError(t, err)
		assert.True(t, out.Ignored)
		assert.Empty(t, ledger.Items())
	})
}
