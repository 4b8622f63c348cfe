// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tripfinder"

var registerOnce sync.Once

// Register registers all collectors on the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		MustRegisterTo(prometheus.DefaultRegisterer)
	})
}

// MustRegisterTo registers all collectors on reg, reusing ones already present.
func MustRegisterTo(reg prometheus.Registerer) {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			panic(err)
		}
	}
}

// InitOutcomes pre-creates outcome series so dashboards see zeros.
func InitOutcomes(outcomes []string) {
	for _, o := range outcomes {
		SearchOutcomesTotal.WithLabelValues(o)
	}
	SearchCacheTotal.WithLabelValues("hit")
	SearchCacheTotal.WithLabelValues("miss")
}

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestDuration,
		httpRequestsTotal,
		httpRequestsInFlight,
		LLMRequestsTotal,
		LLMRequestDuration,
		LLMTokensTotal,
		LLMErrorsTotal,
		SearchOutcomesTotal,
		SearchCacheTotal,
	}
}
