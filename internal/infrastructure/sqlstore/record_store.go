package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

// Drivers de database/sql soportados.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

const schema = `
CREATE TABLE IF NOT EXISTS pos_records (
	resource VARCHAR(255) NOT NULL,
	position INTEGER      NOT NULL,
	fields   TEXT         NOT NULL,
	PRIMARY KEY (resource, position)
)`

// Open abre la base y verifica la conexión. dsn: ruta del archivo (sqlite) o user:pass@tcp(host:port)/db (mysql).
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverMySQL:
	default:
		return nil, fmt.Errorf("sqlstore: driver %q no soportado", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite admite un solo escritor.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetConnMaxLifetime(time.Hour)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// RecordStore guarda cada recurso como filas de pos_records con los campos en JSON.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore construye el adaptador sobre una conexión abierta con Open.
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

// EnsureSchema crea la tabla si no existe.
func (s *RecordStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: crear pos_records: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Load devuelve los registros del recurso en orden. Recurso inexistente = vacío.
func (s *RecordStore) Load(ctx context.Context, resource string) ([]repository.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fields FROM pos_records WHERE resource = ? ORDER BY position`, resource)
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, resource, err)
	}
	defer rows.Close()

	out := []repository.Record{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, resource, err)
		}
		rec := repository.Record{}
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("%w: %s fila %d: %v", domain.ErrPersistence, resource, len(out)+1, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, resource, err)
	}
	return out, nil
}

// Save reemplaza el recurso completo dentro de una transacción.
func (s *RecordStore) Save(ctx context.Context, resource string, records []repository.Record, fields []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pos_records WHERE resource = ?`, resource); err != nil {
		return fmt.Errorf("%w: borrar %s: %v", domain.ErrPersistence, resource, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO pos_records (resource, position, fields) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: preparar insert: %v", domain.ErrPersistence, err)
	}
	defer stmt.Close()

	for i, r := range records {
		row := make(map[string]string, len(fields))
		for _, f := range fields {
			row[f] = r[f]
		}
		raw, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("%w: %s fila %d: %v", domain.ErrPersistence, resource, i+1, err)
		}
		if _, err := stmt.ExecContext(ctx, resource, i, string(raw)); err != nil {
			return fmt.Errorf("%w: insertar %s: %v", domain.ErrPersistence, resource, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}
	return nil
}
