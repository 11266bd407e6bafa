package smufl

import (
	_ "embed"
	"encoding/json"
	"sync"
)

// FontName is the reference font whose metadata is embedded.
const FontName = "Bravura"

// EmSpaces is the SMuFL em size in staff spaces. A font rendered at size
// EmSpaces*unitsPerSpace draws one staff space per metadata space unit.
const EmSpaces = 4.0

//go:embed metadata.json
var metadataJSON []byte

// BBox is a glyph bounding box in staff spaces, relative to the glyph origin.
// X grows rightward, Y grows upward (SMuFL convention; layout code flips Y
// when converting to screen coordinates).
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// EngravingDefaults holds the font's recommended stroke dimensions, in staff
// spaces.
type EngravingDefaults struct {
	StaffLineThickness    float64 `json:"staffLineThickness"`
	StemThickness         float64 `json:"stemThickness"`
	LegerLineThickness    float64 `json:"legerLineThickness"`
	LegerLineExtension    float64 `json:"legerLineExtension"`
	ThinBarlineThickness  float64 `json:"thinBarlineThickness"`
	ThickBarlineThickness float64 `json:"thickBarlineThickness"`
	BarlineSeparation     float64 `json:"barlineSeparation"`
	BeamThickness         float64 `json:"beamThickness"`
	BeamSpacing           float64 `json:"beamSpacing"`
	BracketThickness      float64 `json:"bracketThickness"`
}

// glyphMetrics mirrors the SMuFL metadata bBox entry: northeast and
// southwest corners as [x, y] pairs.
type glyphMetrics struct {
	BBoxNE [2]float64 `json:"bBoxNE"`
	BBoxSW [2]float64 `json:"bBoxSW"`
}

type metadata struct {
	FontName          string                  `json:"fontName"`
	FontVersion       string                  `json:"fontVersion"`
	EngravingDefaults EngravingDefaults       `json:"engravingDefaults"`
	GlyphBBoxes       map[string]glyphMetrics `json:"glyphBBoxes"`
}

var (
	meta     metadata
	metaOnce sync.Once
)

func load() *metadata {
	metaOnce.Do(func() {
		if err := json.Unmarshal(metadataJSON, &meta); err != nil {
			panic("smufl: embedded metadata is malformed: " + err.Error())
		}
	})
	return &meta
}

// GlyphBBox returns the bounding box for a canonical SMuFL glyph name.
// Glyphs absent from the embedded metadata get a default one-space box
// centered on the baseline, so callers never deal with a zero-size box.
func GlyphBBox(name string) BBox {
	m, ok := load().GlyphBBoxes[name]
	if !ok {
		return BBox{X: 0, Y: -0.5, Width: 1, Height: 1}
	}
	return BBox{
		X:      m.BBoxSW[0],
		Y:      m.BBoxSW[1],
		Width:  m.BBoxNE[0] - m.BBoxSW[0],
		Height: m.BBoxNE[1] - m.BBoxSW[1],
	}
}

// CodepointBBox returns the bounding box for a SMuFL codepoint, using the
// same fallback as [GlyphBBox] for unnamed codepoints.
func CodepointBBox(cp rune) BBox {
	return GlyphBBox(Name(cp))
}

// Engraving returns the font's engraving defaults.
func Engraving() EngravingDefaults {
	return load().EngravingDefaults
}

// FontVersion returns the version of the embedded metadata.
func FontVersion() string {
	return load().FontVersion
}
