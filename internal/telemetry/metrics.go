// Package telemetry exposes the dispatcher's Prometheus metrics.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	DispatchOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "alloy_dispatch_total", Help: "Booking dispatches by outcome"}, []string{"outcome"})
	ReplyOutcomes    = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "alloy_contractor_replies_total", Help: "Contractor replies by outcome"}, []string{"outcome"})
	SMSSent          = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "alloy_sms_total", Help: "Outbound SMS by kind and result"}, []string{"kind", "result"})
	WriteBacks       = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "alloy_job_writebacks_total", Help: "CRM job record write-backs by result"}, []string{"result"})
	QuoteStatuses    = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "alloy_quote_lookups_total", Help: "Quote lookups by status"}, []string{"status"})
	DomainEvents     = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "alloy_domain_events_total", Help: "Domain events published on the in-process bus"}, []string{"event"})
	CRMRequests      = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "alloy_crm_request_seconds", Help: "CRM API latency", Buckets: prometheus.DefBuckets}, []string{"operation", "status"})
)

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			DispatchOutcomes,
			ReplyOutcomes,
			SMSSent,
			WriteBacks,
			QuoteStatuses,
			DomainEvents,
			CRMRequests,
		)
	})
	return promhttp.Handler()
}
