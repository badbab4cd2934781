package transform

// Keys of the cascadable properties as they appear in raw configuration.
const (
	KeyFormat      = "format"
	KeyMode        = "mode"
	KeyPosition    = "position"
	KeyQuality     = "quality"
	KeyInterlace   = "interlace"
	KeyFill        = "fill"
	KeyUpscale     = "upscale"
	KeyAspectRatio = "aspectRatio"
)

// PropertyKeys is the allow-list of cascadable configuration keys.
var PropertyKeys = []string{
	KeyFormat, KeyMode, KeyPosition, KeyQuality,
	KeyInterlace, KeyFill, KeyUpscale, KeyAspectRatio,
}

// Properties is the bag of optional properties that cascade from the
// top-level settings into each transform set. A nil field is unset, which
// is distinct from a zero value: an explicit quality of 0 or upscale=false
// stops the parent value from cascading.
type Properties struct {
	Format      *Format    `koanf:"format" yaml:"format,omitempty" json:"format,omitempty"`
	Mode        *Mode      `koanf:"mode" yaml:"mode,omitempty" json:"mode,omitempty"`
	Position    *string    `koanf:"position" yaml:"position,omitempty" json:"position,omitempty"`
	Quality     *int       `koanf:"quality" yaml:"quality,omitempty" json:"quality,omitempty"`
	Interlace   *Interlace `koanf:"interlace" yaml:"interlace,omitempty" json:"interlace,omitempty"`
	Fill        *string    `koanf:"fill" yaml:"fill,omitempty" json:"fill,omitempty"`
	Upscale     *bool      `koanf:"upscale" yaml:"upscale,omitempty" json:"upscale,omitempty"`
	AspectRatio *float64   `koanf:"aspectRatio" yaml:"aspectRatio,omitempty" json:"aspectRatio,omitempty"`
}

// Merge fills every unset field of p from fallback. Fields already set on p
// are left alone.
func (p *Properties) Merge(fallback Properties) {
	fb := fallback.Clone()
	if p.Format == nil {
		p.Format = fb.Format
	}
	if p.Mode == nil {
		p.Mode = fb.Mode
	}
	if p.Position == nil {
		p.Position = fb.Position
	}
	if p.Quality == nil {
		p.Quality = fb.Quality
	}
	if p.Interlace == nil {
		p.Interlace = fb.Interlace
	}
	if p.Fill == nil {
		p.Fill = fb.Fill
	}
	if p.Upscale == nil {
		p.Upscale = fb.Upscale
	}
	if p.AspectRatio == nil {
		p.AspectRatio = fb.AspectRatio
	}
}

// Clone returns a deep copy; the result shares no pointers with p.
func (p Properties) Clone() Properties {
	return Properties{
		Format:      clonePtr(p.Format),
		Mode:        clonePtr(p.Mode),
		Position:    clonePtr(p.Position),
		Quality:     clonePtr(p.Quality),
		Interlace:   clonePtr(p.Interlace),
		Fill:        clonePtr(p.Fill),
		Upscale:     clonePtr(p.Upscale),
		AspectRatio: clonePtr(p.AspectRatio),
	}
}

// Map returns the defined properties keyed by their configuration names.
// Unset properties are omitted and enum values are plain strings.
func (p Properties) Map() map[string]any {
	m := make(map[string]any, len(PropertyKeys))
	if p.Format != nil {
		m[KeyFormat] = string(*p.Format)
	}
	if p.Mode != nil {
		m[KeyMode] = string(*p.Mode)
	}
	if p.Position != nil {
		m[KeyPosition] = *p.Position
	}
	if p.Quality != nil {
		m[KeyQuality] = *p.Quality
	}
	if p.Interlace != nil {
		m[KeyInterlace] = string(*p.Interlace)
	}
	if p.Fill != nil {
		m[KeyFill] = *p.Fill
	}
	if p.Upscale != nil {
		m[KeyUpscale] = *p.Upscale
	}
	if p.AspectRatio != nil {
		m[KeyAspectRatio] = *p.AspectRatio
	}
	return m
}

// Ptr returns a pointer to v. Handy for building Properties literals.
func Ptr[T any](v T) *T { return &v }

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
