// Package csvstore persiste cada recurso como un archivo CSV (encabezado + filas) dentro de un directorio.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

// RecordStore implementación de RecordStore sobre archivos CSV.
type RecordStore struct {
	dir string
}

// New construye el almacén. dir se crea en el primer Save si no existe.
func New(dir string) *RecordStore {
	return &RecordStore{dir: dir}
}

// Path devuelve la ruta del archivo de un recurso.
func (s *RecordStore) Path(resource string) string {
	return filepath.Join(s.dir, resource)
}

// Load lee el archivo del recurso. Un archivo inexistente equivale a un recurso vacío.
// Las filas cortas dejan vacías las columnas faltantes.
func (s *RecordStore) Load(_ context.Context, resource string) ([]repository.Record, error) {
	f, err := os.Open(s.Path(resource))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []repository.Record{}, nil
		}
		return nil, fmt.Errorf("%w: abrir %s: %v", domain.ErrPersistence, resource, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []repository.Record{}, nil
		}
		return nil, fmt.Errorf("%w: leer encabezado de %s: %v", domain.ErrPersistence, resource, err)
	}

	var records []repository.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, resource, err)
		}
		rec := make(repository.Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	if records == nil {
		records = []repository.Record{}
	}
	return records, nil
}

// Save escribe un archivo temporal en el mismo directorio y lo renombra sobre el recurso.
// Si algo falla el archivo anterior queda intacto.
func (s *RecordStore) Save(_ context.Context, resource string, records []repository.Record, fields []string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: crear directorio %s: %v", domain.ErrPersistence, s.dir, err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+resource+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: crear temporal para %s: %v", domain.ErrPersistence, resource, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(fields); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrPersistence, resource, err)
	}
	row := make([]string, len(fields))
	for _, rec := range records {
		for i, f := range fields {
			row[i] = rec[f]
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: escribir %s: %v", domain.ErrPersistence, resource, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrPersistence, resource, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: cerrar %s: %v", domain.ErrPersistence, resource, err)
	}
	if err := os.Rename(tmpName, s.Path(resource)); err != nil {
		return fmt.Errorf("%w: reemplazar %s: %v", domain.ErrPersistence, resource, err)
	}
	return nil
}
