package mongostore_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-registradora/internal/domain/repository"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/mongostore"
)

func TestMongo_GuardarYCargar(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	ctx := context.Background()
	client, err := mongostore.Connect(ctx, uri)
	if err != nil {
		t.Skipf("MongoDB no disponible: %v", err)
	}
	db := client.Database("caja_test")
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	store := mongostore.NewRecordStore(db)
	got, err := store.Load(ctx, "sales.csv")
	require.NoError(t, err)
	assert.Empty(t, got)

	fields := []string{"Sale Date", "Name", "Price", "Stock"}
	rows := []repository.Record{
		{"Sale Date": "2026-03-01 10:00:00", "Name": "Leche", "Price": "2.5", "Stock": "2"},
		{"Sale Date": "2026-03-01 10:00:00", "Name": "Pan", "Price": "1", "Stock": "1"},
	}
	require.NoError(t, store.Save(ctx, "sales.csv", rows, fields))
	require.NoError(t, store.Save(ctx, "sales.csv", rows[1:], fields))

	got, err = store.Load(ctx, "sales.csv")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pan", got[0]["Name"])
	assert.Equal(t, "2026-03-01 10:00:00", got[0]["Sale Date"])
}
