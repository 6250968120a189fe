// Package analytics contiene los reportes sobre el historial de ventas.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/jhoicas/caja-registradora/internal/domain/pricing"
)

// SalesSource historial de ventas y configuración vigente (pos.Session).
type SalesSource interface {
	SalesRecords() []*entity.SaleRecord
	Pricing() entity.PricingConfiguration
}

// ReportUseCase resumen de ventas por artículo.
type ReportUseCase struct {
	source SalesSource
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(source SalesSource) *ReportUseCase {
	return &ReportUseCase{source: source}
}

// Period rango opcional [From, To] sobre la fecha de venta; ceros = sin límite.
type Period struct {
	From time.Time
	To   time.Time
}

// Summary agrupa las ventas por nombre: unidades e importe, ordenado por importe descendente.
// El impuesto se extrae del importe con la configuración vigente.
func (uc *ReportUseCase) Summary(_ context.Context, p Period) (*dto.SalesReportResponse, error) {
	if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
		return nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrValidation)
	}

	byName := make(map[string]*dto.SalesReportLine)
	checkouts := make(map[int64]struct{})
	var lines []*entity.CartLine
	units := 0

	for _, r := range uc.source.SalesRecords() {
		if !p.From.IsZero() && r.SaleDate.Before(p.From) {
			continue
		}
		if !p.To.IsZero() && r.SaleDate.After(p.To) {
			continue
		}
		line := &entity.CartLine{Name: r.Name, UnitPrice: r.Price, Quantity: r.Quantity}
		lines = append(lines, line)
		checkouts[r.SaleDate.Unix()] = struct{}{}
		units += r.Quantity

		acc, ok := byName[r.Name]
		if !ok {
			acc = &dto.SalesReportLine{Name: r.Name}
			byName[r.Name] = acc
		}
		acc.Units += r.Quantity
		acc.Revenue = acc.Revenue.Add(pricing.LineTotal(line))
	}

	out := make([]dto.SalesReportLine, 0, len(byName))
	for _, l := range byName {
		l.Revenue = l.Revenue.Round(2)
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})

	summary := pricing.Summarize(lines, uc.source.Pricing())
	resp := &dto.SalesReportResponse{
		Lines:     out,
		Checkouts: len(checkouts),
		Units:     units,
		Revenue:   summary.Total.Round(2),
		Tax:       summary.Tax.Round(2),
	}
	if !p.From.IsZero() {
		resp.From = p.From.Format(entity.SaleDateLayout)
	}
	if !p.To.IsZero() {
		resp.To = p.To.Format(entity.SaleDateLayout)
	}
	return resp, nil
}
