package world

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestDistanceTo(t *testing.T) {
	a := Position3D{X: 1, Y: 2, Z: 3}
	b := Position3D{X: 4, Y: 6, Z: 3}
	if d := a.DistanceTo(b); math.Abs(d-5) > eps {
		t.Fatalf("expected distance 5, got %v", d)
	}
	if d := b.DistanceTo(a); math.Abs(d-5) > eps {
		t.Fatalf("distance not symmetric: %v", d)
	}
}

func TestFromPolarRoundTrip(t *testing.T) {
	tests := []struct {
		radius, angle float64
	}{
		{100, 0},
		{150, math.Pi / 2},
		{75, -math.Pi / 3},
		{220, 2.5},
	}
	for _, tc := range tests {
		p := FromPolar(tc.radius, tc.angle, 4)
		if math.Abs(p.RadiusXZ()-tc.radius) > 1e-6 {
			t.Errorf("radius %v: got %v", tc.radius, p.RadiusXZ())
		}
		if math.Abs(p.AngleXZ()-tc.angle) > 1e-6 {
			t.Errorf("angle %v: got %v", tc.angle, p.AngleXZ())
		}
		if p.Y != 4 {
			t.Errorf("expected y 4, got %v", p.Y)
		}
	}
}

func TestOppositeAnglesAreFarApart(t *testing.T) {
	a := FromPolar(120, 0.7, 0)
	b := FromPolar(120, 0.7+math.Pi, 0)
	if d := a.DistanceTo(b); math.Abs(d-240) > 1e-6 {
		t.Fatalf("expected diameter 240, got %v", d)
	}
}
