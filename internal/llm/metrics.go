package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var completions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "packlist",
	Subsystem: "llm",
	Name:      "completions_total",
	Help:      "Chat completion calls by outcome.",
}, []string{"outcome"})

func observeCompletion(err error) {
	switch {
	case err == nil:
		completions.WithLabelValues("ok").Inc()
	case IsTransient(err):
		completions.WithLabelValues("transient_error").Inc()
	default:
		completions.WithLabelValues("error").Inc()
	}
}
