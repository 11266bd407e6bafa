package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/layout"
	"github.com/notationkit/stave/pkg/score"
)

// ReadScore decodes a JSON score from r and validates it.
//
// ReadScore returns an error if:
//   - The JSON is malformed
//   - The score violates structural invariants (an instrument with no
//     staves, out of range pitches, overlapping same-pitch notes)
//
// Use errors.Is with the error codes in [pkg/errors] to distinguish
// malformed input (ErrCodeInvalidFormat) from invariant violations
// (ErrCodeInvalidScore).
//
// The returned score is independent of r and can be modified safely
// after ReadScore returns. ReadScore does not close r.
//
// [pkg/errors]: github.com/notationkit/stave/pkg/errors
func ReadScore(r io.Reader) (*score.Score, error) {
	var sc score.Score
	if err := json.NewDecoder(r).Decode(&sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode score")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// ImportScore reads a JSON file at path and returns the decoded score.
//
// ImportScore opens the file, decodes it using [ReadScore], and closes
// the file. A missing file is reported with ErrCodeFileNotFound so
// callers can distinguish it from a malformed one.
func ImportScore(path string) (*score.Score, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadScore(f)
}

// ReadLayout decodes a JSON layout from r.
//
// Layouts are engine output, so ReadLayout checks only that the JSON is
// well formed. ReadLayout does not close r.
func ReadLayout(r io.Reader) (*layout.GlobalLayout, error) {
	var l layout.GlobalLayout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return &l, nil
}

// ImportLayout reads a JSON file at path and returns the decoded layout.
func ImportLayout(path string) (*layout.GlobalLayout, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadLayout(f)
}
