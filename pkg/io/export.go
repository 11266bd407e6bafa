package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/layout"
	"github.com/notationkit/stave/pkg/score"
)

// WriteScore encodes a score as indented JSON and writes it to w.
// The output can be re-imported with [ReadScore] for round-trip
// processing.
func WriteScore(sc *score.Score, w io.Writer) error {
	if sc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "score is nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode score")
	}
	return nil
}

// ExportScore writes a score to a JSON file at path.
// This is a convenience wrapper around [WriteScore] for file-based output.
func ExportScore(sc *score.Score, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteScore(sc, f)
}

// WriteLayout encodes a computed layout as indented JSON and writes it
// to w.
func WriteLayout(l *layout.GlobalLayout, w io.Writer) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidInput, "layout is nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return nil
}

// ExportLayout writes a layout to a JSON file at path.
// This is a convenience wrapper around [WriteLayout] for file-based output.
func ExportLayout(l *layout.GlobalLayout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteLayout(l, f)
}
