// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Inventory 汇总库存服务的业务指标。
type Inventory struct {
	Validations     *prometheus.CounterVec
	Operations      *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
}

// NewInventory 创建并注册库存指标。reg 为 nil 时只创建不注册（测试用）。
func NewInventory(reg prometheus.Registerer) *Inventory {
	m := &Inventory{
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_product_validations_total",
			Help: "Product existence checks against the product service, by outcome.",
		}, []string{"outcome"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_operations_total",
			Help: "Inventory operations, by operation and result.",
		}, []string{"operation", "result"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_events_published_total",
			Help: "Stock change events handed to the event publisher, by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Validations, m.Operations, m.EventsPublished)
	}
	return m
}

// HTTP 记录入站请求数。
type HTTP struct {
	requests *prometheus.CounterVec
	service  string
}

func NewHTTP(reg prometheus.Registerer, service string) *HTTP {
	m := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by service, route pattern and status code.",
		}, []string{"service", "route", "code"}),
		service: service,
	}
	if reg != nil {
		reg.MustRegister(m.requests)
	}
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware 以 ServeMux 匹配到的 pattern 作为 route 标签，避免路径参数导致标签爆炸。
func (m *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(m.service, route, strconv.Itoa(rec.status)).Inc()
	})
}
