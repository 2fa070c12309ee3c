package packing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var generations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "packlist",
	Subsystem: "checklist",
	Name:      "generations_total",
	Help:      "Generated packing lists by generation method.",
}, []string{"method"})
