package settings

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"easyimage/internal/transform"
)

// TransformSet is a named group of output variants that share properties
// and differ by width. Transforms is filled by MaterializeTransforms and is
// read-only for consumers.
//
// Format is kept on the set (it cascades like any other property) but never
// reaches Transforms: images are always encoded in the settings' Format and
// FallbackFormat, so a per-set format has no effect on the output.
type TransformSet struct {
	transform.Properties `yaml:",inline"`

	Widths     []int                 `yaml:"widths"`
	Transforms []transform.Transform `yaml:"transforms,omitempty"`
}

type setInput struct {
	transform.Properties
	Widths []int `koanf:"widths"`
}

// NewTransformSet builds a transform set from raw configuration. Keys other
// than the cascadable properties and widths are rejected, all of them at once.
func NewTransformSet(name string, raw map[string]any) (*TransformSet, error) {
	scope := setScope(name)
	if err := checkKeys(scope, raw, setKeys); err != nil {
		return nil, err
	}
	var in setInput
	if err := decode(scope, raw, &in); err != nil {
		return nil, err
	}

	errs := validateProperties(scope, in.Properties)
	if len(in.Widths) == 0 {
		errs = append(errs, &ValueError{Scope: scope, Key: keyWidths, Value: in.Widths, Reason: "at least one width is required"})
	}
	for _, w := range in.Widths {
		if w <= 0 || w > MaxWidth {
			errs = append(errs, &ValueError{Scope: scope, Key: keyWidths, Value: w, Reason: fmt.Sprintf("widths must be between 1 and %d", MaxWidth)})
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &TransformSet{Properties: in.Properties, Widths: in.Widths}, nil
}

// Extend cascades fallbacks into every property ts leaves unset. Values set
// on ts always win.
func (ts *TransformSet) Extend(fallbacks transform.Properties) {
	ts.Properties.Merge(fallbacks)
}

// MaterializeTransforms emits one descriptor per distinct width, largest
// first, appends them to ts.Transforms and returns them. It is a single-pass
// operation: calling it again appends a second full copy.
//
// With a non-zero aspect ratio the height is width/aspectRatio rounded half
// away from zero; otherwise it is 0.
func (ts *TransformSet) MaterializeTransforms() []transform.Transform {
	widths := slices.Clone(ts.Widths)
	slices.SortFunc(widths, func(a, b int) int { return cmp.Compare(b, a) })
	widths = slices.Compact(widths)

	props := ts.Properties.Clone()
	props.Format = nil

	out := make([]transform.Transform, 0, len(widths))
	for _, w := range widths {
		out = append(out, transform.Transform{
			Width:      w,
			Height:     ts.heightFor(w),
			Properties: props.Clone(),
		})
	}
	ts.Transforms = append(ts.Transforms, out...)
	return out
}

func (ts *TransformSet) heightFor(width int) int {
	if ts.AspectRatio == nil || *ts.AspectRatio == 0 {
		return 0
	}
	return int(math.Round(float64(width) / *ts.AspectRatio))
}

func (ts *TransformSet) WithWidths(widths ...int) *TransformSet {
	ts.Widths = widths
	return ts
}

func (ts *TransformSet) WithAspectRatio(r float64) *TransformSet {
	ts.AspectRatio = &r
	return ts
}

func (ts *TransformSet) WithQuality(q int) *TransformSet {
	ts.Quality = &q
	return ts
}

func (ts *TransformSet) WithMode(m transform.Mode) *TransformSet {
	ts.Mode = &m
	return ts
}

func (ts *TransformSet) WithPosition(p string) *TransformSet {
	ts.Position = &p
	return ts
}
