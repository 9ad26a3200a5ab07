package core

import "testing"

func TestBoxIntersects(t *testing.T) {
	unit := Vec3{X: 1, Y: 1, Z: 1}

	tests := []struct {
		name     string
		a, b     Box3
		expected bool
	}{
		{
			name:     "overlapping boxes",
			a:        BoxAround(Vec3{}, unit),
			b:        BoxAround(Vec3{X: 1, Y: 1, Z: 1}, unit),
			expected: true,
		},
		{
			name:     "separated on x",
			a:        BoxAround(Vec3{}, unit),
			b:        BoxAround(Vec3{X: 3}, unit),
			expected: false,
		},
		{
			name:     "separated on y",
			a:        BoxAround(Vec3{}, unit),
			b:        BoxAround(Vec3{Y: -3}, unit),
			expected: false,
		},
		{
			name:     "separated on z only",
			a:        BoxAround(Vec3{}, unit),
			b:        BoxAround(Vec3{Z: -40}, unit),
			expected: false,
		},
		{
			name:     "touching faces (no overlap)",
			a:        BoxAround(Vec3{}, unit),
			b:        BoxAround(Vec3{X: 2}, unit),
			expected: false,
		},
		{
			name:     "contained box",
			a:        BoxAround(Vec3{}, Vec3{X: 5, Y: 10, Z: 1}),
			b:        BoxAround(Vec3{X: 1, Y: 2, Z: 0.5}, Vec3{X: 0.2, Y: 0.2, Z: 0.2}),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoxAroundCenterSize(t *testing.T) {
	b := BoxAround(Vec3{X: 2, Y: -1, Z: -50}, Vec3{X: 1, Y: 2, Z: 3})

	if c := b.Center(); c != (Vec3{X: 2, Y: -1, Z: -50}) {
		t.Errorf("Center() = %+v, expected (2, -1, -50)", c)
	}
	if s := b.Size(); s != (Vec3{X: 2, Y: 4, Z: 6}) {
		t.Errorf("Size() = %+v, expected (2, 4, 6)", s)
	}
}

func TestVecOps(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 0.5, Y: -1, Z: 2}

	if got := a.Add(b); got != (Vec3{X: 1.5, Y: 1, Z: 5}) {
		t.Errorf("Add() = %+v", got)
	}
	if got := a.Sub(b); got != (Vec3{X: 0.5, Y: 3, Z: 1}) {
		t.Errorf("Sub() = %+v", got)
	}
	if got := a.Scale(2); got != (Vec3{X: 2, Y: 4, Z: 6}) {
		t.Errorf("Scale() = %+v", got)
	}
}

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping rects", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"non-overlapping horizontal", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), false},
		{"adjacent vertical (no overlap)", NewRect(0, 0, 10, 10), NewRect(0, 10, 10, 10), false},
		{"single cell overlap", NewRect(0, 0, 10, 10), NewRect(9, 9, 10, 10), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}

	if got := ClampF(-18.5, -18, 18); got != -18 {
		t.Errorf("ClampF(-18.5, -18, 18) = %f, expected -18", got)
	}
	if Max(3, 7) != 7 || Max(7, 3) != 7 {
		t.Error("Max(3, 7) should be 7")
	}
}
