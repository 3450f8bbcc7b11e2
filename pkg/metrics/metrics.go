// Package metrics expõe os contadores Prometheus da API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultPosted  = "posted"
	ResultDropped = "dropped"
	ResultOK      = "ok"
	ResultFailed  = "failed"
)

// Metrics agrupa os coletores registrados em um Registry próprio
type Metrics struct {
	registry           *prometheus.Registry
	sessionPosts       *prometheus.CounterVec
	ledgerTransactions *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
}

// New cria e registra os coletores. Cada instância usa um Registry isolado
// para que testes possam criar quantas quiserem.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		sessionPosts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reborn_session_posts_total",
			Help: "Work-session ledger posts issued after a committed transaction.",
		}, []string{"kind", "result"}),
		ledgerTransactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reborn_ledger_transactions_total",
			Help: "Primary ledger transactions (delivery, payment, stock) by outcome.",
		}, []string{"operation", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reborn_http_requests_total",
			Help: "HTTP requests by route and status class.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.sessionPosts, m.ledgerTransactions, m.httpRequests)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// SessionPost conta um post no ledger da sessão
func (m *Metrics) SessionPost(kind, result string) {
	if m == nil {
		return
	}
	m.sessionPosts.WithLabelValues(kind, result).Inc()
}

// LedgerTransaction conta o resultado de uma transação primária
func (m *Metrics) LedgerTransaction(operation string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}
	m.ledgerTransactions.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) HTTPRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}

// Registry expõe o registry para testes
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serve o endpoint /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
