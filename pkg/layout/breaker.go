package layout

// breakIntoSystems distributes measures greedily across systems. It
// accumulates measures until adding the next one would exceed maxWidth,
// flushes the current system, and starts the next one with that
// measure. A single measure wider than maxWidth is placed alone on its
// own system rather than rejected; the layout overflows to the right
// and the caller decides how to present it.
func breakIntoSystems(ms []measure, maxWidth float64) [][]measure {
	var systems [][]measure
	var current []measure
	var width float64

	flush := func() {
		systems = append(systems, current)
		current = nil
		width = 0
	}

	for _, m := range ms {
		if len(current) > 0 && width+m.width > maxWidth {
			flush()
		}
		current = append(current, m)
		width += m.width
		if width > maxWidth && len(current) == 1 {
			flush()
		}
	}
	if len(current) > 0 {
		flush()
	}
	return systems
}
