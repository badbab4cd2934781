package transform

import "slices"

// Format is an output image encoding.
type Format string

const (
	FormatJPG  Format = "jpg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

// Formats lists every encoding a transform may be rendered in.
var Formats = []Format{FormatJPG, FormatPNG, FormatGIF, FormatWebP, FormatAVIF}

func (f Format) Valid() bool { return slices.Contains(Formats, f) }

// Mode controls how the source image is fitted into the target box.
type Mode string

const (
	ModeCrop      Mode = "crop"
	ModeFit       Mode = "fit"
	ModeStretch   Mode = "stretch"
	ModeLetterbox Mode = "letterbox"
)

var Modes = []Mode{ModeCrop, ModeFit, ModeStretch, ModeLetterbox}

func (m Mode) Valid() bool { return slices.Contains(Modes, m) }

// Interlace is the progressive-encoding scheme.
type Interlace string

const (
	InterlaceNone      Interlace = "none"
	InterlaceLine      Interlace = "line"
	InterlacePlane     Interlace = "plane"
	InterlacePartition Interlace = "partition"
)

var Interlaces = []Interlace{InterlaceNone, InterlaceLine, InterlacePlane, InterlacePartition}

func (i Interlace) Valid() bool { return slices.Contains(Interlaces, i) }

// Positions are the crop anchors understood by the image pipeline.
var Positions = []string{
	"top-left", "top-center", "top-right",
	"center-left", "center-center", "center-right",
	"bottom-left", "bottom-center", "bottom-right",
}

func ValidPosition(p string) bool { return slices.Contains(Positions, p) }
