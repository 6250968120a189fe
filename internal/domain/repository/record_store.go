package repository

import "context"

// Record fila de un recurso tabular: nombre de columna -> valor como texto.
type Record map[string]string

// RecordStore define el puerto de persistencia genérico de recursos tabulares
// (encabezado + una fila por registro, todos los campos como texto).
type RecordStore interface {
	// Load devuelve los registros en orden. Si el recurso no existe devuelve una lista vacía sin error.
	Load(ctx context.Context, resource string) ([]Record, error)
	// Save reescribe el recurso completo con el encabezado fields y una fila por registro.
	Save(ctx context.Context, resource string, records []Record, fields []string) error
}
