package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/caja-registradora/internal/application/analytics"
	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/application/pos"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
)

// ReceiptRenderer genera el PDF de un comprobante.
type ReceiptRenderer interface {
	GenerateReceiptPDF(ctx context.Context, r *pos.Receipt) ([]byte, error)
}

// SalesHandler historial, reporte, comprobantes y anulaciones.
type SalesHandler struct {
	session  *pos.Session
	reports  *analytics.ReportUseCase
	receipts ReceiptRenderer
}

// NewSalesHandler construye el handler. receipts puede ser nil (sin PDF).
func NewSalesHandler(session *pos.Session, reports *analytics.ReportUseCase, receipts ReceiptRenderer) *SalesHandler {
	return &SalesHandler{session: session, reports: reports, receipts: receipts}
}

// List godoc
// @Summary      Historial de ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SalesListResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.session.Sales())
}

// Report godoc
// @Summary      Resumen de ventas por artículo
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD o YYYY-MM-DD HH:MM:SS)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD o YYYY-MM-DD HH:MM:SS)"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/report [get]
func (h *SalesHandler) Report(c *fiber.Ctx) error {
	from, err := parseReportDate(c.Query("from"), false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := parseReportDate(c.Query("to"), true)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.reports.Summary(c.UserContext(), analytics.Period{From: from, To: to})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF del cobro
// @Description  Incluye todas las ventas registradas en el mismo cobro que la venta indicada.
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *fiber.Ctx) error {
	if h.receipts == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "comprobantes PDF deshabilitados"})
	}
	receipt, err := h.session.Receipt(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.receipts.GenerateReceiptPDF(c.UserContext(), receipt)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="comprobante-%s.pdf"`, receipt.SaleDate.Format("20060102-150405")))
	return c.Send(doc)
}

// Reverse godoc
// @Summary      Anular venta
// @Description  Elimina la venta y devuelve su cantidad al inventario según la política configurada.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.ReversalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SalesHandler) Reverse(c *fiber.Ctx) error {
	out, err := h.session.ReverseSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseReportDate acepta fecha sola o fecha y hora; una fecha sola como límite superior cubre el día entero.
func parseReportDate(raw string, endOfDay bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(entity.SaleDateLayout, raw, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q", domain.ErrValidation, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}
