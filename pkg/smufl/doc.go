// Package smufl provides SMuFL codepoints and font metrics for music glyphs.
//
// SMuFL (Standard Music Font Layout) assigns Unicode Private Use Area
// codepoints to musical symbols and ships per-font metadata describing glyph
// geometry. This package embeds a subset of the Bravura reference font's
// metadata and exposes it through typed accessors, so layout code can reason
// about glyph extents without loading font files at runtime.
//
// # Units
//
// All metric values are in staff spaces, the SMuFL native unit. One staff
// space is the distance between two adjacent staff lines; an em equals
// [EmSpaces] staff spaces. Callers convert to logical units by multiplying
// with their units-per-space scale.
//
// # Codepoints
//
// Constants cover the glyphs the layout engine places:
//
//	smufl.GClef              // U+E050
//	smufl.NoteheadBlack      // U+E0A4
//	smufl.AccidentalSharp    // U+E262
//	smufl.TimeSigDigit(3)    // U+E083
//
// # Metrics
//
// Bounding boxes are keyed by canonical glyph name and accessible by name or
// codepoint:
//
//	bbox := smufl.GlyphBBox("noteheadBlack")   // {X:0, Y:-0.5, Width:1.18, Height:1}
//	bbox = smufl.CodepointBBox(smufl.GClef)
//
// Unknown glyphs fall back to a one-space default box so hit-testing stays
// well-defined for symbols absent from the embedded subset.
//
// [EngravingDefaults] carries the font's recommended stroke thicknesses
// (staff lines, stems, barlines, beams), also in staff spaces.
//
// # Concurrency
//
// The embedded metadata is parsed once on first access and is read-only
// afterwards; all functions are safe for concurrent use.
package smufl
