// Package instrument collects prometheus metrics for key generation, signing
// and verification.
package instrument

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	keysGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rainbow_keys_generated_total",
			Help: "Number of key pairs generated",
		},
	)
	signatures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rainbow_signatures_total",
			Help: "Number of signatures produced",
		},
	)
	verifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rainbow_verifications_total",
			Help: "Number of verifications by outcome",
		},
		[]string{"result"},
	)
	inversionAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rainbow_inversion_attempts",
			Help:    "Vinegar samples needed to invert the central map",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		},
	)
	affineAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rainbow_affine_attempts",
			Help:    "Matrices sampled to obtain invertible S and T",
			Buckets: prometheus.LinearBuckets(2, 1, 8),
		},
	)
)

func init() {
	registry.MustRegister(keysGenerated)
	registry.MustRegister(signatures)
	registry.MustRegister(verifications)
	registry.MustRegister(inversionAttempts)
	registry.MustRegister(affineAttempts)
}

// Registry returns the registry holding every rainbow metric.
func Registry() *prometheus.Registry {
	return registry
}

// KeyGenerated records a key pair and the affine sampling it took.
func KeyGenerated(attempts int) {
	keysGenerated.Inc()
	affineAttempts.Observe(float64(attempts))
}

// Signed records a signature and the central map inversion attempts.
func Signed(attempts int) {
	signatures.Inc()
	inversionAttempts.Observe(float64(attempts))
}

// Verified records a verification outcome.
func Verified(ok bool) {
	result := "invalid"
	if ok {
		result = "valid"
	}
	verifications.With(prometheus.Labels{"result": result}).Inc()
}

// Rejected records a verification refused for malformed input.
func Rejected() {
	verifications.With(prometheus.Labels{"result": "rejected"}).Inc()
}

// WriteTextfile writes every metric to path in the node exporter textfile
// format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, registry)
}
