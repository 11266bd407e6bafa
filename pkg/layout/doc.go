// Package layout converts a symbolic score into a fully positioned,
// renderer-ready document.
//
// The entry point is [Compute]:
//
//	doc, err := layout.Compute(sc, layout.DefaultConfig())
//
// Its output is a [GlobalLayout]: systems stacked top to bottom, each
// holding per-instrument staff groups whose staves carry absolute
// coordinates for every staff line, glyph, stem, beam and barline.
// Consumers draw what they are given; no musical knowledge is needed
// downstream of this package.
//
// # Coordinate Model
//
// All geometry is emitted in logical units with an SVG-style axis
// (x grows right, y grows down). Config.UnitsPerSpace fixes the scale:
// one staff space equals UnitsPerSpace units, so a five-line staff is
// four times that tall. Font sizes and glyph bounding boxes are derived
// from SMuFL font metrics at the same scale, which keeps every symbol
// proportioned to the staff no matter the configured density. Each
// system has its own origin at the top-left of its first staff's top
// line; system bounding boxes place those origins on the page.
//
// # Pipeline
//
// Compute is a pure function arranged as sequential passes: derive
// measures from the time signature map, plan accidentals against key
// signatures, assign each measure a width from its rhythmic content,
// break measures greedily into systems, position slots and glyphs
// within each system, and stack the systems vertically. A measure
// wider than the configured maximum still becomes a (single-measure)
// system; overflow is the caller's policy question, not an error.
//
// # Determinism
//
// Identical score and config values serialize to byte-identical JSON.
// Every traversal runs in input or sorted order and all emitted floats
// are rounded to two decimals in one final pass, so layouts can be
// content-hashed for caching and diffed in tests.
package layout
