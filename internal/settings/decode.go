package settings

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"easyimage/internal/transform"
)

const (
	keyWidths         = "widths"
	keyFallbackFormat = "fallbackFormat"
	keyTransformSets  = "transformSets"

	topLevelScope = "top-level settings"
)

// Bounds that keep width/aspectRatio a sane pixel count for every width.
const (
	MaxWidth       = 65535
	MinAspectRatio = 0.001
	MaxAspectRatio = 1000
)

var (
	setKeys      = append(slices.Clone(transform.PropertyKeys), keyWidths)
	topLevelKeys = append(slices.Clone(transform.PropertyKeys), keyFallbackFormat, keyTransformSets)
)

// TopLevelKeys returns the keys accepted in a top-level settings block.
func TopLevelKeys() []string { return slices.Clone(topLevelKeys) }

func setScope(name string) string { return fmt.Sprintf("transform set %q", name) }

// checkKeys fails with every key of raw that is not in allowed, sorted.
func checkKeys(scope string, raw map[string]any, allowed []string) error {
	var bad []string
	for k := range raw {
		if !slices.Contains(allowed, k) {
			bad = append(bad, k)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	slices.Sort(bad)
	return &KeyError{Scope: scope, Keys: bad}
}

// decode maps raw configuration onto out. Strings are parsed into numbers
// and bools so environment values ("80", "true", "1.5") decode like YAML
// scalars; every other cross-type conversion is an error.
func decode(scope string, raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "koanf",
		Squash:  true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.DecodeHookFuncType(scalarHook),
		),
		Result: out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, scope, err)
	}
	return nil
}

// scalarHook parses strings for numeric and bool targets and rejects bools
// and fractional floats where an integer is expected.
func scalarHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int:
		switch v := data.(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", v)
			}
			return n, nil
		case float64:
			if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
				return nil, fmt.Errorf("%v is not a whole number", v)
			}
			return int(v), nil
		case bool:
			return nil, fmt.Errorf("%v is not an integer", v)
		}
	case reflect.Float64:
		switch v := data.(type) {
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", v)
			}
			return f, nil
		case bool:
			return nil, fmt.Errorf("%v is not a number", v)
		}
	case reflect.Bool:
		if v, ok := data.(string); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%q is not a bool", v)
			}
			return b, nil
		}
	}
	return data, nil
}

func validateProperties(scope string, p transform.Properties) []error {
	var errs []error
	bad := func(key string, v any, reason string) {
		errs = append(errs, &ValueError{Scope: scope, Key: key, Value: v, Reason: reason})
	}
	if p.Format != nil && !p.Format.Valid() {
		bad(transform.KeyFormat, *p.Format, "must be one of "+joinEnum(transform.Formats))
	}
	if p.Mode != nil && !p.Mode.Valid() {
		bad(transform.KeyMode, *p.Mode, "must be one of "+joinEnum(transform.Modes))
	}
	if p.Interlace != nil && !p.Interlace.Valid() {
		bad(transform.KeyInterlace, *p.Interlace, "must be one of "+joinEnum(transform.Interlaces))
	}
	if p.Position != nil && !transform.ValidPosition(*p.Position) {
		bad(transform.KeyPosition, *p.Position, "must be one of "+strings.Join(transform.Positions, ", "))
	}
	if p.Quality != nil && (*p.Quality < 0 || *p.Quality > 100) {
		bad(transform.KeyQuality, *p.Quality, "must be between 0 and 100")
	}
	if ar := p.AspectRatio; ar != nil && *ar != 0 &&
		(math.IsNaN(*ar) || math.IsInf(*ar, 0) || *ar < MinAspectRatio || *ar > MaxAspectRatio) {
		bad(transform.KeyAspectRatio, *ar, fmt.Sprintf("must be 0 or between %v and %v", MinAspectRatio, MaxAspectRatio))
	}
	return errs
}

func joinEnum[T ~string](vals []T) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
