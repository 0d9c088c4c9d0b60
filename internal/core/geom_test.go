package core

import "testing"

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
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestCellOf(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec
		expected Point
	}{
		{"origin", Vec{0, 0}, Pt(0, 0)},
		{"inside first tile", Vec{39.9, 12}, Pt(0, 0)},
		{"tile boundary", Vec{40, 80}, Pt(1, 2)},
		{"negative floors down", Vec{-0.5, -40.1}, Pt(-1, -2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CellOf(tc.v, 40); got != tc.expected {
				t.Errorf("CellOf(%v) = %v, expected %v", tc.v, got, tc.expected)
			}
		})
	}
}

func TestNearestCell(t *testing.T) {
	tests := []struct {
		v        Vec
		expected Point
	}{
		{Vec{0, 0}, Pt(0, 0)},
		{Vec{19, 19}, Pt(0, 0)},
		{Vec{20, 20}, Pt(1, 1)},
		{Vec{130, 41}, Pt(3, 1)},
	}

	for _, tc := range tests {
		if got := NearestCell(tc.v, 40); got != tc.expected {
			t.Errorf("NearestCell(%v) = %v, expected %v", tc.v, got, tc.expected)
		}
	}
}

func TestPointManhattan(t *testing.T) {
	if d := Pt(3, 3).Manhattan(Pt(4, 4)); d != 2 {
		t.Errorf("Manhattan diagonal = %d, expected 2", d)
	}
	if d := Pt(3, 3).Manhattan(Pt(3, 4)); d != 1 {
		t.Errorf("Manhattan orthogonal = %d, expected 1", d)
	}
	if p := Pt(1, 2).Add(Pt(-1, 3)); p != Pt(0, 5) {
		t.Errorf("Add = %v, expected (0,5)", p)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d",
				tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
