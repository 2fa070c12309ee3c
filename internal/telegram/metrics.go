package telegram

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var updates = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "packlist",
	Subsystem: "bot",
	Name:      "updates_total",
	Help:      "Chat updates handled, by kind.",
}, []string{"kind"})
