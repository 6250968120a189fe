package pos

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/caja-registradora/internal/application/cart"
	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/application/inventory"
	"github.com/jhoicas/caja-registradora/internal/application/sales"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	"github.com/jhoicas/caja-registradora/internal/domain/pricing"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
	"github.com/jhoicas/caja-registradora/pkg/logger"
	"github.com/jhoicas/caja-registradora/pkg/metrics"
	"github.com/shopspring/decimal"
)

var minusHundred = decimal.NewFromInt(-100)

// Options parámetros de la sesión.
type Options struct {
	Policy  inventory.MissingItemPolicy
	Pricing entity.PricingConfiguration
	Clock   sales.Clock // nil = time.Now
}

// Session punto de entrada de la caja. Un único operador: el mutex serializa
// las peticiones concurrentes del servidor HTTP.
// Cada operación devuelve una instantánea lista para responder.
type Session struct {
	mu      sync.Mutex
	ledger  *inventory.LedgerUseCase
	cart    *cart.UseCase
	sales   *sales.UseCase
	pricing entity.PricingConfiguration
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewSession arma inventario, carrito e historial sobre los repositorios. m puede ser nil.
func NewSession(invRepo repository.InventoryRepository, salesRepo repository.SalesRepository, opts Options, log *logger.Logger, m *metrics.Metrics) *Session {
	if opts.Policy == "" {
		opts.Policy = inventory.PolicyCreate
	}
	if log == nil {
		log = logger.Nop()
	}
	ledger := inventory.NewLedgerUseCase(invRepo)
	c := cart.NewUseCase(ledger, opts.Policy)
	return &Session{
		ledger:  ledger,
		cart:    c,
		sales:   sales.NewUseCase(salesRepo, ledger, c, opts.Policy, opts.Clock),
		pricing: opts.Pricing,
		log:     log.Component("pos"),
		metrics: m,
	}
}

// Open carga inventario e historial persistidos.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Load(ctx); err != nil {
		return fmt.Errorf("cargar inventario: %w", err)
	}
	if err := s.sales.Load(ctx); err != nil {
		return fmt.Errorf("cargar ventas: %w", err)
	}
	s.log.Info().
		Int("items", len(s.ledger.Items())).
		Int("sales", len(s.sales.Records())).
		Msg("sesión abierta")
	return nil
}

// ---------- inventario ----------

// Inventory lista el inventario.
func (s *Session) Inventory() dto.InventoryListResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.ToInventoryListResponse(s.ledger.Items())
}

// AddItem da de alta un artículo.
func (s *Session) AddItem(ctx context.Context, in dto.AddItemRequest) (*dto.InventoryItemResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ledger.AddItem(ctx, in)
	s.observe("add_item", err)
	if item == nil {
		return nil, err
	}
	out := dto.ToInventoryItemResponse(item)
	return &out, err
}

// EditItem modifica precio, stock o vencimiento.
func (s *Session) EditItem(ctx context.Context, id string, in dto.EditItemRequest) (*dto.InventoryItemResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ledger.Edit(ctx, id, in)
	s.observe("edit_item", err)
	if item == nil {
		return nil, err
	}
	out := dto.ToInventoryItemResponse(item)
	return &out, err
}

// AdjustStock suma o resta unidades al artículo.
func (s *Session) AdjustStock(ctx context.Context, id string, delta int) (*dto.InventoryItemResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ledger.AdjustStock(ctx, id, delta)
	s.observe("adjust_stock", err)
	if item == nil {
		return nil, err
	}
	out := dto.ToInventoryItemResponse(item)
	return &out, err
}

// DeleteItem descarta quantity unidades; sin cantidad elimina el artículo completo.
func (s *Session) DeleteItem(ctx context.Context, id string, quantity *int) (dto.InventoryListResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if quantity == nil {
		err = s.ledger.RemoveItem(ctx, id)
	} else {
		_, err = s.ledger.DeleteQuantity(ctx, id, *quantity)
	}
	s.observe("delete_item", err)
	return dto.ToInventoryListResponse(s.ledger.Items()), err
}

// ---------- carrito ----------

// Cart instantánea del carrito con totales.
func (s *Session) Cart() dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartSnapshot()
}

// AddToCart pasa unidades del inventario al carrito.
func (s *Session) AddToCart(ctx context.Context, in dto.AddToCartRequest) (dto.CartResponse, error) {
	if err := dto.Validate(in); err != nil {
		s.observe("cart_add", err)
		return s.Cart(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.cart.Add(ctx, in.ItemID, in.Quantity)
	s.observe("cart_add", err)
	return s.cartSnapshot(), err
}

// RemoveFromCart devuelve unidades de una línea al inventario.
func (s *Session) RemoveFromCart(ctx context.Context, lineID string, quantity int) (dto.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.cart.Remove(ctx, lineID, quantity)
	s.observe("cart_remove", err)
	return s.cartSnapshot(), err
}

// RemoveLine devuelve la línea completa al inventario.
func (s *Session) RemoveLine(ctx context.Context, lineID string) (dto.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qty := 0
	for _, l := range s.cart.Lines() {
		if l.ID == lineID {
			qty = l.Quantity
			break
		}
	}
	var err error
	if qty == 0 {
		err = fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	} else {
		_, err = s.cart.Remove(ctx, lineID, qty)
	}
	s.observe("cart_remove", err)
	return s.cartSnapshot(), err
}

// Checkout cobra el carrito.
func (s *Session) Checkout(ctx context.Context) (*dto.CheckoutResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := pricing.Summarize(s.cart.Lines(), s.pricing)
	records, err := s.sales.Checkout(ctx)
	s.observe("checkout", err)
	if records == nil {
		return nil, err
	}

	units := 0
	for _, r := range records {
		units += r.Quantity
	}
	if s.metrics != nil {
		s.metrics.RecordSale(units, summary.Total.InexactFloat64())
		s.metrics.SetCartLines(0)
	}
	s.log.Info().
		Int("lines", len(records)).
		Int("units", units).
		Str("total", summary.Total.StringFixed(2)).
		Msg("cobro registrado")

	return &dto.CheckoutResponse{
		Records: dto.ToSaleRecordResponses(records),
		Summary: dto.ToCartResponse(nil, summary, s.pricing).Summary,
	}, err
}

// ---------- ventas ----------

// Sales historial de ventas.
func (s *Session) Sales() dto.SalesListResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := dto.ToSaleRecordResponses(s.sales.Records())
	return dto.SalesListResponse{Records: out, Total: len(out)}
}

// SalesRecords copia de las ventas para reportes.
func (s *Session) SalesRecords() []*entity.SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sales.Records()
}

// ReverseSale anula una venta y devuelve su stock.
func (s *Session) ReverseSale(ctx context.Context, saleID string) (*dto.ReversalResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, outcome, err := s.sales.Reverse(ctx, saleID)
	s.observe("reverse_sale", err)
	if rec == nil {
		return nil, err
	}
	if outcome.Ignored {
		s.log.Warn().Str("name", rec.Name).Int("quantity", rec.Quantity).Msg("venta anulada sin artículo para devolver stock")
	}
	return &dto.ReversalResponse{
		Record:    dto.ToSaleRecordResponse(rec),
		Restocked: outcome.Restocked,
		Created:   outcome.Created,
		Ignored:   outcome.Ignored,
	}, err
}

// Receipt datos del comprobante del cobro al que pertenece saleID.
func (s *Session) Receipt(saleID string) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.sales.Receipt(saleID)
	if err != nil {
		s.observe("receipt", err)
		return nil, err
	}
	lines := make([]*entity.CartLine, 0, len(records))
	for _, r := range records {
		lines = append(lines, &entity.CartLine{Name: r.Name, UnitPrice: r.Price, Quantity: r.Quantity})
	}
	return &Receipt{
		SaleDate: records[0].SaleDate,
		Records:  records,
		Summary:  pricing.Summarize(lines, s.pricing),
		Pricing:  s.pricing,
	}, nil
}

// Receipt comprobante de un cobro. Los totales usan la configuración vigente al emitirlo.
type Receipt struct {
	SaleDate time.Time
	Records  []*entity.SaleRecord
	Summary  entity.CartSummary
	Pricing  entity.PricingConfiguration
}

// ---------- preferencias ----------

// Preferences configuración de precios vigente.
func (s *Session) Preferences() dto.PreferencesResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.ToPreferencesResponse(s.pricing)
}

// UpdatePreferences cambia impuesto y descuento. Si alguno no es válido no cambia ninguno.
func (s *Session) UpdatePreferences(in dto.UpdatePreferencesRequest) (dto.PreferencesResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := parsePreferences(in)
	s.observe("update_preferences", err)
	if err != nil {
		return dto.ToPreferencesResponse(s.pricing), err
	}
	s.pricing = cfg
	return dto.ToPreferencesResponse(s.pricing), nil
}

// Pricing configuración vigente.
func (s *Session) Pricing() entity.PricingConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing
}

func parsePreferences(in dto.UpdatePreferencesRequest) (entity.PricingConfiguration, error) {
	if err := dto.Validate(in); err != nil {
		return entity.PricingConfiguration{}, err
	}
	tax, err := decimal.NewFromString(strings.TrimSpace(in.TaxPercentage))
	if err != nil {
		return entity.PricingConfiguration{}, fmt.Errorf("%w: impuesto %q no es numérico", domain.ErrValidation, in.TaxPercentage)
	}
	discount, err := decimal.NewFromString(strings.TrimSpace(in.DiscountPercentage))
	if err != nil {
		return entity.PricingConfiguration{}, fmt.Errorf("%w: descuento %q no es numérico", domain.ErrValidation, in.DiscountPercentage)
	}
	if tax.Equal(minusHundred) {
		return entity.PricingConfiguration{}, fmt.Errorf("%w: el impuesto no puede ser -100", domain.ErrValidation)
	}
	return entity.PricingConfiguration{TaxPercentage: tax, DiscountPercentage: discount}, nil
}

func (s *Session) cartSnapshot() dto.CartResponse {
	lines := s.cart.Lines()
	if s.metrics != nil {
		s.metrics.SetCartLines(len(lines))
	}
	return dto.ToCartResponse(lines, pricing.Summarize(lines, s.pricing), s.pricing)
}

// observe registra el resultado de una operación en log y métricas.
func (s *Session) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = domain.Code(err)
	}
	if s.metrics != nil {
		s.metrics.RecordOperation(op, result)
	}
	switch result {
	case "ok":
		s.log.Info().Str("op", op).Msg("operación realizada")
	case "PERSISTENCE", "INTERNAL":
		s.log.Error().Err(err).Str("op", op).Msg("fallo al guardar")
	default:
		s.log.Warn().Err(err).Str("op", op).Str("code", result).Msg("operación rechazada")
	}
}
