package telemetry

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"easyimage/internal/settings"
)

// Metrics counts normalization work and configuration failures. The host
// owns the registry and its exposition.
type Metrics struct {
	Normalizations prometheus.Counter
	Transforms     *prometheus.CounterVec
	ConfigErrors   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Normalizations: f.NewCounter(prometheus.CounterOpts{
			Name: "easyimage_normalize_total",
			Help: "Normalization passes over the settings",
		}),
		Transforms: f.NewCounterVec(prometheus.CounterOpts{
			Name: "easyimage_transforms_total",
			Help: "Transforms materialized, by transform set",
		}, []string{"set"}),
		ConfigErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "easyimage_config_errors_total",
			Help: "Settings failures, by kind (key, value, unknown_set, load)",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveSet(name string, transforms int) {
	m.Transforms.WithLabelValues(name).Add(float64(transforms))
}

// ObserveError records err under its kind. Nil is ignored.
func (m *Metrics) ObserveError(err error) {
	if err == nil {
		return
	}
	m.ConfigErrors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind classifies a settings failure for the kind label.
func ErrorKind(err error) string {
	var ke *settings.KeyError
	switch {
	case errors.As(err, &ke):
		return "key"
	case errors.Is(err, settings.ErrInvalidConfig):
		return "value"
	case errors.Is(err, settings.ErrUnknownTransformSet):
		return "unknown_set"
	default:
		return "load"
	}
}
