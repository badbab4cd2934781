package engine

import (
	"maps"
	"slices"
	"sync"

	"easyimage/internal/logging"
	"easyimage/internal/settings"
	"easyimage/internal/telemetry"
)

// Engine owns one Settings value for the life of the process and makes sure
// each transform set is normalized at most once, however many requests ask
// for it. After Prepare returns, the prepared sets are read-only.
type Engine struct {
	settings *settings.Settings
	metrics  *telemetry.Metrics

	mu       sync.Mutex // guards prepared and every Normalize call
	prepared map[string]bool
}

func New(s *settings.Settings, m *telemetry.Metrics) *Engine {
	return &Engine{
		settings: s,
		metrics:  m,
		prepared: make(map[string]bool),
	}
}

func (e *Engine) Settings() *settings.Settings { return e.settings }

// Prepare normalizes the named sets that have not been prepared yet; with no
// names it prepares every set. Unknown names fail the whole call.
func (e *Engine) Prepare(names ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(names) == 0 {
		for _, name := range slices.Sorted(maps.Keys(e.settings.TransformSets)) {
			if e.settings.TransformSets[name] != nil {
				names = append(names, name)
			}
		}
	}
	var pending []string
	for _, name := range names {
		if !e.prepared[name] && !slices.Contains(pending, name) {
			pending = append(pending, name)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	if err := e.settings.Normalize(pending...); err != nil {
		e.metrics.ObserveError(err)
		return err
	}
	e.metrics.Normalizations.Inc()
	for _, name := range pending {
		e.prepared[name] = true
		e.metrics.ObserveSet(name, len(e.settings.TransformSets[name].Transforms))
	}
	logging.L().Info("transform sets prepared", "sets", pending)
	return nil
}

// Prepared reports whether name has been normalized.
func (e *Engine) Prepared(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prepared[name]
}

// TransformSet prepares name if needed and returns it.
func (e *Engine) TransformSet(name string) (*settings.TransformSet, error) {
	if err := e.Prepare(name); err != nil {
		return nil, err
	}
	return e.settings.TransformSet(name)
}
