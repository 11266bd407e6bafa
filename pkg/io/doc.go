// Package io provides JSON import and export for scores and computed
// layouts.
//
// # Overview
//
// This package serializes the two document types the engine works with:
// the musical score (engine input) and the global layout (engine
// output). The format is designed for:
//
//   - Storing scores on disk between editing sessions
//   - Feeding the layout command from files produced by other tools
//   - Caching computed layouts for clients that render them later
//   - Round-trip preservation: export a score, re-import it, and lay it
//     out identically
//
// # Score Format
//
// A score is a JSON object with an id, global structural events, and an
// instrument tree:
//
//	{
//	  "id": "9f4c...",
//	  "global_structural_events": [
//	    {"type": "tempo", "tick": 0, "bpm": 120},
//	    {"type": "time_signature", "tick": 0,
//	     "time_signature": {"numerator": 4, "denominator": 4}}
//	  ],
//	  "instruments": [
//	    {"id": "...", "name": "Piano", "instrument_type": "piano",
//	     "staves": [...]}
//	  ]
//	}
//
// Each staff carries its own structural events (clef and key signature
// changes) and voices; each voice carries interval events with a start
// tick, a duration in ticks, and a MIDI pitch. Ticks are at 960 per
// quarter note.
//
// # Import
//
// Use [ImportScore] to read a score from a file path, or [ReadScore] to
// read from any io.Reader:
//
//	sc, err := io.ImportScore("sonata.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate structural invariants after decoding, so an
// imported score is safe to hand to the layout engine. Errors carry the
// codes from the errors package: ErrCodeFileNotFound for a missing
// file, ErrCodeInvalidFormat for malformed JSON, and ErrCodeInvalidScore
// for invariant violations.
//
// # Export
//
// Use [ExportScore] to write a score to a file, or [WriteScore] to
// write to any io.Writer:
//
//	err := io.ExportScore(sc, "sonata.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [ExportLayout] and [WriteLayout] do the same for computed layouts.
// Layout files are read back with [ImportLayout] and [ReadLayout];
// since layouts are engine output, reading checks only that the JSON is
// well formed.
//
// # Concurrency
//
// All functions in this package are safe to call concurrently with
// other readers of the same score, but not with concurrent
// modifications. [ReadScore] and [ImportScore] return independent score
// instances that can be modified freely after import.
package io
