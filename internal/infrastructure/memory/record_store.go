package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

// RecordStore guarda los recursos en memoria. Copia en cada Load/Save para que
// los llamadores no compartan mapas con el almacén.
type RecordStore struct {
	mu        sync.RWMutex
	resources map[string]resource
	saves     int
	saveErr   error
}

type resource struct {
	fields  []string
	records []repository.Record
}

// NewRecordStore construye un almacén vacío.
func NewRecordStore() *RecordStore {
	return &RecordStore{resources: make(map[string]resource)}
}

// Load devuelve una copia de los registros del recurso.
func (s *RecordStore) Load(_ context.Context, name string) ([]repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.resources[name]
	if !ok {
		return []repository.Record{}, nil
	}
	return copyRecords(res.records, res.fields), nil
}

// Save reemplaza el recurso completo. Solo se conservan las columnas de fields.
func (s *RecordStore) Save(_ context.Context, name string, records []repository.Record, fields []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return domain.AsPersistence(s.saveErr)
	}
	s.resources[name] = resource{
		fields:  append([]string(nil), fields...),
		records: copyRecords(records, fields),
	}
	s.saves++
	return nil
}

// Fields devuelve el encabezado con el que se guardó el recurso.
func (s *RecordStore) Fields(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.resources[name].fields...)
}

// FailSaves hace que los Save siguientes fallen con err (nil restablece).
func (s *RecordStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Saves cuenta las escrituras realizadas (útil en tests).
func (s *RecordStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func copyRecords(records []repository.Record, fields []string) []repository.Record {
	out := make([]repository.Record, 0, len(records))
	for _, r := range records {
		c := make(repository.Record, len(fields))
		for _, f := range fields {
			c[f] = r[f]
		}
		out = append(out, c)
	}
	return out
}
