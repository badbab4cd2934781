package engine

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"easyimage/internal/config"
	"easyimage/internal/telemetry"
)

type Config struct {
	// SettingsPath is the YAML settings file; empty means env-only.
	SettingsPath string
	// Registerer receives the engine metrics. Nil uses a private registry.
	Registerer prometheus.Registerer
}

// Bootstrap loads the settings once for the process.
func Bootstrap(cfg Config) (*Engine, error) {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := telemetry.NewMetrics(reg)

	s, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		m.ObserveError(err)
		return nil, fmt.Errorf("settings: %w", err)
	}
	return New(s, m), nil
}
