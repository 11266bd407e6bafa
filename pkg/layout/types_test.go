package layout

import "testing"

func TestBoundingBoxContains(t *testing.T) {
	b := BoundingBox{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"interior", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"on left edge", 10, 45, true},
		{"left of box", 9.99, 45, false},
		{"below box", 50, 70.01, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestBoundingBoxIntersects(t *testing.T) {
	b := BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		name  string
		other BoundingBox
		want  bool
	}{
		{"overlapping", BoundingBox{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"contained", BoundingBox{X: 25, Y: 25, Width: 10, Height: 10}, true},
		{"touching right edge", BoundingBox{X: 100, Y: 0, Width: 50, Height: 100}, false},
		{"touching corner", BoundingBox{X: 100, Y: 100, Width: 10, Height: 10}, false},
		{"disjoint", BoundingBox{X: 200, Y: 0, Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Intersects(b); got != tt.want {
				t.Errorf("Intersects is not symmetric for %+v", tt.other)
			}
		})
	}
}

func TestTickRangeContains(t *testing.T) {
	r := TickRange{Start: 960, End: 1920}
	if !r.Contains(960) {
		t.Error("start tick should be inside the range")
	}
	if r.Contains(1920) {
		t.Error("end tick should be outside the half-open range")
	}
	if r.Contains(0) || r.Contains(5000) {
		t.Error("ticks outside the interval should not be contained")
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.235, 1.24},
		{-1.235, -1.24},
		{0, 0},
		{100, 100},
		{0.005, 0.01},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
