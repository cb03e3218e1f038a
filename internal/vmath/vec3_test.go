package vmath

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{name: "axis", in: Vec3{0, 0, 5}, want: Vec3{0, 0, 1}},
		{name: "negative", in: Vec3{-3, 0, 0}, want: Vec3{-1, 0, 0}},
		{name: "zero", in: Vec3{}, want: Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Fatalf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_UnitLength(t *testing.T) {
	v := Vec3{1, 2, 3}.Normalize()
	if math.Abs(v.Len()-1) > 1e-12 {
		t.Errorf("Len = %v, want 1", v.Len())
	}
}

func TestDistance(t *testing.T) {
	a := Vec3{1, 1, 1}
	b := Vec3{4, 5, 1}
	if d := a.Distance(b); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := b.Distance(a); d != 5 {
		t.Errorf("Distance (reversed) = %v, want 5", d)
	}
}

func TestAddSubScale(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{0.5, 0.5, 0.5}
	if got := a.Add(b).Sub(b); got != a {
		t.Errorf("Add then Sub = %v, want %v", got, a)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale(2) = %v", got)
	}
}
