package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"easyimage/internal/logging"
	"easyimage/internal/settings"
)

const (
	SupportedSchema = "v1"

	// EnvPrefix marks environment overrides of top-level settings, e.g.
	// EASYIMAGE__QUALITY=80 or EASYIMAGE__FALLBACKFORMAT=jpg.
	EnvPrefix = "EASYIMAGE__"
	envDelim  = "__"

	schemaKey = "schema_version"
)

// LoadSettings merges the YAML file at path (if present) with environment
// overrides and builds Settings from the result. Transform sets can only come
// from the file; the environment overrides top-level defaults.
func LoadSettings(path string) (*settings.Settings, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return build(k, path)
}

// Parse is LoadSettings for an in-memory YAML document.
func Parse(doc []byte) (*settings.Settings, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(doc), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return build(k, "inline")
}

func build(k *koanf.Koanf, source string) (*settings.Settings, error) {
	// schema_version belongs to the document envelope, not to the settings,
	// so it is dropped before the key allow-list sees the map.
	sv := k.String(schemaKey)
	if sv != "" && sv != SupportedSchema {
		return nil, fmt.Errorf("settings schema_version %q not supported (want %q)", sv, SupportedSchema)
	}
	k.Delete(schemaKey)

	if err := k.Load(env.Provider(EnvPrefix, envDelim, envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	s, err := settings.New(k.Raw())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	logging.L().Debug("settings loaded",
		"source", source,
		"format", s.PrimaryFormat(),
		"fallback_format", s.FallbackFormat,
		"transform_sets", len(s.TransformSets))
	return s, nil
}

// envKey maps EASYIMAGE__ASPECTRATIO to aspectRatio. Nested names are
// skipped; unknown names pass through so settings.New reports them.
func envKey(s string) string {
	name := strings.TrimPrefix(s, EnvPrefix)
	if name == "" || strings.Contains(name, envDelim) {
		return ""
	}
	for _, key := range settings.TopLevelKeys() {
		if strings.EqualFold(key, name) {
			return key
		}
	}
	return strings.ToLower(name)
}
