package transform

import (
	"fmt"
	"maps"

	"google.golang.org/protobuf/types/known/structpb"
)

// Transform is one fully resolved output variant of a transform set. Height
// 0 leaves the height to the image processor. Format is never set here: the
// primary and fallback encodings are chosen once at the settings level.
type Transform struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	Properties `yaml:",inline"`
}

// Params flattens t into the parameter map expected by an image-transform
// API: width, height and every defined property.
func (t Transform) Params() map[string]any {
	m := map[string]any{
		"width":  t.Width,
		"height": t.Height,
	}
	maps.Copy(m, t.Properties.Map())
	return m
}

// Struct encodes Params as a google.protobuf.Struct, the form hosts that
// drive their image pipeline over protobuf expect.
func (t Transform) Struct() (*structpb.Struct, error) {
	s, err := structpb.NewStruct(t.Params())
	if err != nil {
		return nil, fmt.Errorf("transform %dx%d: %w", t.Width, t.Height, err)
	}
	return s, nil
}
