// Package settings holds the image-transform configuration cascade: global
// defaults, named transform sets that override them, and the one-time
// normalization pass that pushes defaults down and materializes the concrete
// transforms of each set.
//
// Life cycle: build with New (or a literal plus the fluent setters), call
// Normalize exactly once for each set, then treat the value as read-only.
// Normalize is not safe for concurrent use; hosts that share one Settings
// across requests must guard it (see internal/engine).
package settings

import (
	"errors"
	"maps"
	"slices"

	"easyimage/internal/logging"
	"easyimage/internal/transform"
)

const (
	DefaultFormat         = transform.FormatAVIF
	DefaultFallbackFormat = transform.FormatWebP
)

// Settings is the root of the cascade. Its Properties are the global
// defaults; Format is the primary output encoding and FallbackFormat the
// encoding served to clients without support for it.
type Settings struct {
	transform.Properties `yaml:",inline"`

	FallbackFormat transform.Format         `yaml:"fallbackFormat"`
	TransformSets  map[string]*TransformSet `yaml:"transformSets"`
}

type settingsInput struct {
	transform.Properties
	FallbackFormat transform.Format          `koanf:"fallbackFormat"`
	TransformSets  map[string]map[string]any `koanf:"transformSets"`
}

// New builds Settings from raw configuration, as produced by a YAML or env
// loader. Unknown top-level keys abort construction; every invalid value
// across the top level and all transform sets is reported together.
func New(raw map[string]any) (*Settings, error) {
	if err := checkKeys(topLevelScope, raw, topLevelKeys); err != nil {
		return nil, err
	}
	var in settingsInput
	if err := decode(topLevelScope, raw, &in); err != nil {
		return nil, err
	}

	s := &Settings{
		Properties:     in.Properties,
		FallbackFormat: in.FallbackFormat,
		TransformSets:  make(map[string]*TransformSet, len(in.TransformSets)),
	}
	s.applyDefaults()

	errs := validateProperties(topLevelScope, s.Properties)
	if err := s.validateFallback(); err != nil {
		errs = append(errs, err)
	}
	for _, name := range slices.Sorted(maps.Keys(in.TransformSets)) {
		ts, err := NewTransformSet(name, in.TransformSets[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.TransformSets[name] = ts
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

// PrimaryFormat is the encoding every transform is generated in first.
func (s *Settings) PrimaryFormat() transform.Format {
	if s.Format == nil {
		return ""
	}
	return *s.Format
}

// Fallbacks is the snapshot of defined top-level properties that Normalize
// cascades into each set.
func (s *Settings) Fallbacks() transform.Properties { return s.Properties.Clone() }

// Normalize cascades the top-level properties into the named transform sets
// (all of them when names is empty) and materializes their transforms.
// Every name is checked before any set is touched. Normalize must run once
// per set: a second pass appends duplicate transforms.
func (s *Settings) Normalize(names ...string) error {
	s.applyDefaults()
	if err := s.validateFormats(); err != nil {
		return err
	}
	selected, err := s.selectSets(names)
	if err != nil {
		return err
	}

	fallbacks := s.Fallbacks()
	for _, name := range selected {
		ts := s.TransformSets[name]
		ts.Extend(fallbacks)
		out := ts.MaterializeTransforms()
		logging.L().Debug("transform set normalized", "set", name, "transforms", len(out))
	}
	return nil
}

// TransformSet returns the named set.
func (s *Settings) TransformSet(name string) (*TransformSet, error) {
	ts, ok := s.TransformSets[name]
	if !ok || ts == nil {
		return nil, unknownSets([]string{name})
	}
	return ts, nil
}

// SetTransformSets replaces the whole catalog.
func (s *Settings) SetTransformSets(sets map[string]*TransformSet) *Settings {
	s.TransformSets = sets
	return s
}

// SetFormat sets the primary output encoding. Defaults to avif.
func (s *Settings) SetFormat(f transform.Format) *Settings {
	s.Format = &f
	return s
}

// SetFallbackFormat sets the fallback encoding. Defaults to webp.
func (s *Settings) SetFallbackFormat(f transform.Format) *Settings {
	s.FallbackFormat = f
	return s
}

func (s *Settings) applyDefaults() {
	if s.Format == nil || *s.Format == "" {
		f := DefaultFormat
		s.Format = &f
	}
	if s.FallbackFormat == "" {
		s.FallbackFormat = DefaultFallbackFormat
	}
}

func (s *Settings) validateFallback() error {
	if s.FallbackFormat.Valid() {
		return nil
	}
	return &ValueError{
		Scope:  topLevelScope,
		Key:    keyFallbackFormat,
		Value:  s.FallbackFormat,
		Reason: "must be one of " + joinEnum(transform.Formats),
	}
}

func (s *Settings) validateFormats() error {
	var errs []error
	if !s.Format.Valid() {
		errs = append(errs, &ValueError{
			Scope:  topLevelScope,
			Key:    transform.KeyFormat,
			Value:  *s.Format,
			Reason: "must be one of " + joinEnum(transform.Formats),
		})
	}
	if err := s.validateFallback(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// selectSets resolves names to a de-duplicated list in request order, or to
// every set in sorted order when names is empty.
func (s *Settings) selectSets(names []string) ([]string, error) {
	if len(names) == 0 {
		var all []string
		for name, ts := range s.TransformSets {
			if ts != nil {
				all = append(all, name)
			}
		}
		slices.Sort(all)
		return all, nil
	}

	var selected, missing []string
	for _, name := range names {
		if slices.Contains(selected, name) || slices.Contains(missing, name) {
			continue
		}
		if ts, ok := s.TransformSets[name]; !ok || ts == nil {
			missing = append(missing, name)
			continue
		}
		selected = append(selected, name)
	}
	if len(missing) > 0 {
		return nil, unknownSets(missing)
	}
	return selected, nil
}
