package layout

import "sort"

// VisibleSystems returns the systems whose bounding boxes overlap the
// vertical viewport [viewportY, viewportY+viewportHeight). Systems are
// stacked in increasing Y order, so the first candidate is found by
// binary search and the rest follow contiguously. The result is a
// subslice of l.Systems; callers must not mutate it.
func (l *GlobalLayout) VisibleSystems(viewportY, viewportHeight float64) []System {
	lo := sort.Search(len(l.Systems), func(i int) bool {
		return l.Systems[i].BoundingBox.Bottom() > viewportY
	})
	hi := lo
	for hi < len(l.Systems) && l.Systems[hi].BoundingBox.Y < viewportY+viewportHeight {
		hi++
	}
	return l.Systems[lo:hi]
}
