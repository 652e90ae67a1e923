package world

import "math"

// Position3D is a point in galaxy space. Planets orbit in the XZ plane; Y is
// the (small) vertical offset.
type Position3D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// FromPolar builds a position from a radius and angle in the XZ plane.
func FromPolar(radius, angle, y float64) Position3D {
	return Position3D{
		X: radius * math.Cos(angle),
		Y: y,
		Z: radius * math.Sin(angle),
	}
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position3D) DistanceTo(o Position3D) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// AngleXZ returns the polar angle in the XZ plane, in radians (-π, π].
func (p Position3D) AngleXZ() float64 { return math.Atan2(p.Z, p.X) }

// RadiusXZ returns the distance from the origin projected on the XZ plane.
func (p Position3D) RadiusXZ() float64 { return math.Hypot(p.X, p.Z) }
