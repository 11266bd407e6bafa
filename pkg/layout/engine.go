package layout

import (
	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/score"
)

// Compute lays out a score into a renderer-ready document. It is a
// pure function of its inputs: no I/O, no shared state, and identical
// inputs serialize to byte-identical output. Invalid input fails
// before any layout work with no partial result.
//
// The pipeline: derive measures from the time signature map, plan
// accidentals, assign measure widths, break measures into systems,
// position every slot and glyph per system, and stack the systems
// vertically.
func Compute(sc *score.Score, cfg Config) (*GlobalLayout, error) {
	cfg, err := cfg.Validated()
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, errors.New(errors.ErrCodeInvalidScore, "cannot lay out a nil score")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	out := &GlobalLayout{Systems: []System{}, UnitsPerSpace: cfg.UnitsPerSpace}
	if len(sc.Instruments) == 0 {
		return out, nil
	}

	ms := buildMeasures(sc)
	collectSlots(sc, ms)
	plans, accidentalTicks := planAccidentals(sc, ms)
	applyWidths(sc, ms, accidentalTicks, cfg.UnitsPerSpace)
	for i := 0; i+1 < len(ms); i++ {
		ms[i].doubleAtEnd = ms[i+1].keyChange || ms[i+1].timeChange
	}
	ms[len(ms)-1].final = true

	for i, run := range breakIntoSystems(ms, cfg.MaxSystemWidth) {
		out.Systems = append(out.Systems, buildSystem(sc, cfg, i, run, plans))
	}
	stackSystems(out, cfg)
	out.roundAll()
	return out, nil
}

// stackSystems places systems top to bottom and fills in the document
// totals: the height of the stack including gaps, and the width of the
// widest system.
func stackSystems(l *GlobalLayout, cfg Config) {
	n := len(l.Systems)
	if n == 0 {
		return
	}
	var maxWidth float64
	for i := range l.Systems {
		l.Systems[i].BoundingBox.Y = float64(i) * (cfg.SystemHeight + cfg.SystemSpacing)
		if w := l.Systems[i].BoundingBox.Width; w > maxWidth {
			maxWidth = w
		}
	}
	l.TotalWidth = maxWidth
	l.TotalHeight = float64(n)*cfg.SystemHeight + float64(n-1)*cfg.SystemSpacing
}
