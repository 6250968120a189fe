package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.RecordStore = (*RecordStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS pos_records (
	resource TEXT    NOT NULL,
	position INTEGER NOT NULL,
	fields   JSONB   NOT NULL,
	PRIMARY KEY (resource, position)
)`

// RecordStore guarda cada recurso como filas de pos_records, una por registro, en orden.
type RecordStore struct {
	db TxBeginner
}

// NewRecordStore construye el adaptador. Pasar el pool.
func NewRecordStore(db TxBeginner) *RecordStore {
	return &RecordStore{db: db}
}

// EnsureSchema crea la tabla si no existe.
func (s *RecordStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%w: crear pos_records: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Load devuelve los registros del recurso en orden. Recurso inexistente = vacío.
func (s *RecordStore) Load(ctx context.Context, resource string) ([]repository.Record, error) {
	rows, err := s.db.Query(ctx,
		`SELECT fields FROM pos_records WHERE resource = $1 ORDER BY position`, resource)
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, resource, err)
	}
	defer rows.Close()

	out := []repository.Record{}
	for rows.Next() {
		var fields map[string]string
		if err := rows.Scan(&fields); err != nil {
			return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, resource, err)
		}
		out = append(out, repository.Record(fields))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, resource, err)
	}
	return out, nil
}

// Save reemplaza el recurso completo dentro de una transacción.
func (s *RecordStore) Save(ctx context.Context, resource string, records []repository.Record, fields []string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM pos_records WHERE resource = $1`, resource); err != nil {
		return fmt.Errorf("%w: borrar %s: %v", domain.ErrPersistence, resource, err)
	}

	batch := &pgx.Batch{}
	for i, r := range records {
		batch.Queue(`INSERT INTO pos_records (resource, position, fields) VALUES ($1, $2, $3)`,
			resource, i, project(r, fields))
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("%w: insertar %s: %v", domain.ErrPersistence, resource, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit transaction: %v", domain.ErrPersistence, err)
	}
	return nil
}

// InventoryValue suma Price*Stock de un recurso de inventario en la base, con NUMERIC.
func (s *RecordStore) InventoryValue(ctx context.Context, resource string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM((fields->>'Price')::numeric * COALESCE(NULLIF(fields->>'Stock', ''), '0')::numeric), 0)
		FROM pos_records WHERE resource = $1`, resource).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: valorizar %s: %v", domain.ErrPersistence, resource, err)
	}
	return total, nil
}

func project(r repository.Record, fields []string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = r[f]
	}
	return out
}
