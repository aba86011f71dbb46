package fluid

import "math"

// Vec2 is a 2D world-space vector.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// VelocityField is sampled by advection traces and particle updates.
type VelocityField interface {
	Velocity(p Vec2) Vec2
}

// ForceSampler supplies an external acceleration at a world position.
// Forces accumulate additively when applied multiple times per step.
type ForceSampler interface {
	Force(p Vec2) Vec2
}

// ConstantForce is a uniform acceleration such as gravity.
type ConstantForce Vec2

func (c ConstantForce) Force(Vec2) Vec2 {
	return Vec2(c)
}

// Integrator traces a point through a velocity field over dt.
// A negative dt traces the characteristic backward.
type Integrator interface {
	Trace(p Vec2, dt float64, vel VelocityField) Vec2
}

// Renderer is the drawing surface the core reports state to. The core only
// writes to it; its absence never affects physics.
type Renderer interface {
	Line(a, b Vec2)
	Point(p Vec2)
}
