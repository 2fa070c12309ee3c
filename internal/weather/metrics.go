package weather

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "packlist",
	Subsystem: "weather",
	Name:      "provider_requests_total",
	Help:      "Weather provider calls by operation and outcome.",
}, []string{"op", "outcome"})

func observeRequest(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	providerRequests.WithLabelValues(op, outcome).Inc()
}
