package mutation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func newFailureCounter() prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{
		Name: "mutations_rolled_back_total",
		Help: "Optimistic mutations that failed and were rolled back",
	})
}
