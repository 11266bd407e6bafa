package layout

import "testing"

// stackedDoc builds a document of n systems with height 200 stacked at
// a 100 unit gap, the geometry Compute produces for those settings.
func stackedDoc(n int) *GlobalLayout {
	l := &GlobalLayout{Systems: make([]System, n)}
	for i := range l.Systems {
		l.Systems[i] = System{
			Index:       i,
			BoundingBox: BoundingBox{X: 0, Y: float64(i) * 300, Width: 800, Height: 200},
		}
	}
	return l
}

func TestVisibleSystems(t *testing.T) {
	l := stackedDoc(5)
	tests := []struct {
		name      string
		y, h      float64
		wantFirst int
		wantCount int
	}{
		{"first system only", 0, 200, 0, 1},
		{"gap between systems", 210, 80, 0, 0},
		{"spanning two", 150, 300, 0, 2},
		{"middle system", 650, 100, 2, 1},
		{"everything", 0, 5000, 0, 5},
		{"past the end", 2000, 500, 0, 0},
		{"sliver of last", 1399.5, 1, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.VisibleSystems(tt.y, tt.h)
			if len(got) != tt.wantCount {
				t.Fatalf("got %d systems, want %d", len(got), tt.wantCount)
			}
			if tt.wantCount > 0 && got[0].Index != tt.wantFirst {
				t.Errorf("first visible index = %d, want %d", got[0].Index, tt.wantFirst)
			}
		})
	}
}

func TestVisibleSystemsTouchingEdgesExcluded(t *testing.T) {
	l := stackedDoc(2)
	// Viewport ending exactly at a system's top edge does not show it,
	// and one starting at a bottom edge does not show that system.
	if got := l.VisibleSystems(100, 200); len(got) != 1 || got[0].Index != 0 {
		t.Errorf("viewport [100,300) sees %d systems, want just the first", len(got))
	}
	if got := l.VisibleSystems(200, 100); len(got) != 0 {
		t.Errorf("viewport [200,300) in the gap sees %d systems, want none", len(got))
	}
}

func TestVisibleSystemsMatchesScan(t *testing.T) {
	l := stackedDoc(7)
	for y := -100.0; y <= 2300; y += 37 {
		for _, h := range []float64{10, 150, 400, 1000} {
			var want []int
			for _, sys := range l.Systems {
				if sys.BoundingBox.Y < y+h && sys.BoundingBox.Bottom() > y {
					want = append(want, sys.Index)
				}
			}
			got := l.VisibleSystems(y, h)
			if len(got) != len(want) {
				t.Fatalf("viewport (%v, %v): got %d systems, want %d", y, h, len(got), len(want))
			}
			for i, sys := range got {
				if sys.Index != want[i] {
					t.Fatalf("viewport (%v, %v): index %d, want %d", y, h, sys.Index, want[i])
				}
			}
		}
	}
}

func TestVisibleSystemsEmptyLayout(t *testing.T) {
	l := &GlobalLayout{Systems: []System{}}
	if got := l.VisibleSystems(0, 1000); len(got) != 0 {
		t.Errorf("empty layout sees %d systems, want none", len(got))
	}
}
