// Package pkg provides the core libraries for the Stave notation engine.
//
// # Overview
//
// Stave turns musical scores into deterministic engraving layouts:
// line-broken systems, spaced measures, and positioned glyphs that a
// client renders without making further musical decisions. The pkg
// directory is organized into four main areas:
//
//  1. [score] - The score model (instruments, staves, voices, notes,
//     structural events) and its invariants
//  2. [layout] - The engraving engine (line breaking, spacing, glyph
//     positioning) and the layout document types
//  3. [cache], [scorestore] - Infrastructure (layout caching, score
//     persistence)
//  4. [pipeline] - Orchestration (validate → layout, with caching)
//
// # Architecture
//
// The typical data flow through Stave:
//
//	Score (JSON file or API)
//	         ↓
//	score.Validate
//	         ↓
//	layout.Compute (cached by content hash)
//	         ↓
//	GlobalLayout (systems, measures, glyphs)
//
// Supporting packages: [smufl] holds the glyph codepoints and metric
// tables the engine positions against, [io] reads and writes the JSON
// documents, [errors] defines the typed error codes shared across the
// module, and [observability] carries the hook points the CLI and
// server use for instrumentation.
package pkg
