package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics métricas de la caja con registro propio.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	Operations *prometheus.CounterVec // operation, result
	UnitsSold  prometheus.Counter
	Revenue    prometheus.Counter
	CartLines  prometheus.Gauge
}

// New registra las métricas bajo el namespace indicado ("caja" si vacío).
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "caja"
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)
	m.Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operaciones de la sesión por resultado",
		},
		[]string{"operation", "result"},
	)
	m.UnitsSold = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "units_sold_total",
		Help:      "Unidades cobradas",
	})
	m.Revenue = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revenue_total",
		Help:      "Importe cobrado (impuesto incluido)",
	})
	m.CartLines = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_lines",
		Help:      "Líneas en el carrito actual",
	})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.Operations,
		m.UnitsSold,
		m.Revenue,
		m.CartLines,
	)
	return m
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry devuelve el registro de prometheus.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest registra una petición atendida.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordOperation cuenta una operación de la sesión; result es "ok" o el código de error.
func (m *Metrics) RecordOperation(operation, result string) {
	m.Operations.WithLabelValues(operation, result).Inc()
}

// RecordSale suma unidades e importe de un cobro.
func (m *Metrics) RecordSale(units int, amount float64) {
	m.UnitsSold.Add(float64(units))
	m.Revenue.Add(amount)
}

// SetCartLines fija el número de líneas del carrito.
func (m *Metrics) SetCartLines(n int) {
	m.CartLines.Set(float64(n))
}
