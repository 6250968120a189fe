// import_inventory agrega al inventario configurado los artículos de un CSV heredado
// con encabezado Name,Price,Stock,Expiration. Cada fila pasa por la misma validación que el alta manual.
//
// Uso: go run ./cmd/import_inventory -file viejo.csv [-encoding latin1] [-dry-run]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/application/inventory"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/records"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/storage"
	"github.com/jhoicas/caja-registradora/pkg/config"
	"github.com/jhoicas/caja-registradora/pkg/logger"
)

func main() {
	file := flag.String("file", "", "CSV a importar")
	encoding := flag.String("encoding", "utf8", "utf8 | latin1")
	dryRun := flag.Bool("dry-run", false, "validar sin guardar")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Uso: import_inventory -file <csv> [-encoding latin1] [-dry-run]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("import")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := readRows(f, *encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	if *dryRun {
		cfg.Store.Driver = config.DriverMemory
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.Close()

	ledger := inventory.NewLedgerUseCase(records.NewInventoryRepository(store, cfg.Store.InventoryResource))
	if err := ledger.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar inventario")
	}

	res := importRows(ctx, ledger, rows)
	for _, e := range res.Errors {
		log.Warn().Err(e).Msg("fila descartada")
	}
	log.Info().
		Int("importados", res.Imported).
		Int("descartados", len(res.Errors)).
		Int("total_inventario", len(ledger.Items())).
		Bool("dry_run", *dryRun).
		Msg("importación terminada")
	if res.Persist != nil {
		log.Fatal().Err(res.Persist).Msg("guardar inventario")
	}
}

// readRows decodifica el CSV (UTF-8 o ISO-8859-1) en solicitudes de alta.
func readRows(r io.Reader, encoding string) ([]dto.AddItemRequest, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("encoding %q no soportado", encoding)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, name := range records.InventoryFields {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("falta la columna %s", name)
		}
	}

	get := func(row []string, name string) string {
		if i := col[name]; i < len(row) {
			return row[i]
		}
		return ""
	}
	var out []dto.AddItemRequest
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, dto.AddItemRequest{
			Name:       get(row, records.ColName),
			Price:      get(row, records.ColPrice),
			Stock:      get(row, records.ColStock),
			Expiration: get(row, records.ColExpiration),
		})
	}
	return out, nil
}

type importResult struct {
	Imported int
	Errors   []error
	Persist  error
}

// importRows agrega cada fila con AddItem; una fila inválida no detiene el resto.
// AddItem guarda en cada alta, así que un error de persistencia corta la importación.
func importRows(ctx context.Context, ledger *inventory.LedgerUseCase, rows []dto.AddItemRequest) importResult {
	var res importResult
	for i, in := range rows {
		if _, err := ledger.AddItem(ctx, in); err != nil {
			if errors.Is(err, domain.ErrPersistence) {
				res.Persist = err
				return res
			}
			res.Errors = append(res.Errors, fmt.Errorf("fila %d (%q): %w", i+2, in.Name, err))
			continue
		}
		res.Imported++
	}
	return res
}
