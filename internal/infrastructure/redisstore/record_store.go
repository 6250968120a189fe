package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

const keyPrefix = "caja:resource:"

// document contenido de la clave: encabezado y filas en orden.
type document struct {
	Fields []string   `json:"fields"`
	Rows   [][]string `json:"rows"`
}

// RecordStore guarda cada recurso en una clave con un documento JSON. Save es un único SET.
type RecordStore struct {
	client *redis.Client
}

// NewRecordStore construye el adaptador.
func NewRecordStore(client *redis.Client) *RecordStore {
	return &RecordStore{client: client}
}

// Key clave de redis del recurso.
func Key(resource string) string {
	return keyPrefix + resource
}

// Load devuelve los registros del recurso. Clave inexistente = vacío.
func (s *RecordStore) Load(ctx context.Context, resource string) ([]repository.Record, error) {
	raw, err := s.client.Get(ctx, Key(resource)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []repository.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, resource, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPersistence, resource, err)
	}
	out := make([]repository.Record, 0, len(doc.Rows))
	for i, row := range doc.Rows {
		if len(row) > len(doc.Fields) {
			return nil, fmt.Errorf("%w: %s fila %d: %d columnas, encabezado de %d", domain.ErrPersistence, resource, i+1, len(row), len(doc.Fields))
		}
		rec := make(repository.Record, len(doc.Fields))
		for j, f := range doc.Fields {
			if j < len(row) {
				rec[f] = row[j]
			} else {
				rec[f] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Save reemplaza el recurso completo.
func (s *RecordStore) Save(ctx context.Context, resource string, records []repository.Record, fields []string) error {
	doc := document{Fields: fields, Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = r[f]
		}
		doc.Rows = append(doc.Rows, row)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, resource, err)
	}
	if err := s.client.Set(ctx, Key(resource), raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: guardar %s: %v", domain.ErrPersistence, resource, err)
	}
	return nil
}
