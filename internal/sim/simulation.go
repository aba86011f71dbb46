// Package sim implements the staggered-grid FLIP/PIC liquid simulator: it
// owns the velocity and collision grids, the liquid and solid level sets,
// the marker particles, and sequences the per-step pipeline of force
// application, advection, projection, viscosity, extrapolation, and
// volume correction.
package sim

import (
	"math"

	"github.com/fluidlab/flip2d/internal/advect"
	"github.com/fluidlab/flip2d/internal/extrapolate"
	"github.com/fluidlab/flip2d/internal/field"
	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/integrators"
	"github.com/fluidlab/flip2d/internal/levelset"
	"github.com/fluidlab/flip2d/internal/particles"
)

// Numerically risky policies are fixed constants rather than silent
// defaults.
const (
	// flipRatio blends the FLIP increment against a fresh PIC sample
	// during grid-to-particle transfer.
	flipRatio = 0.95

	// particlesPerCell is the reseeding density target inside the liquid.
	particlesPerCell = 4

	// particleOutlier deletes markers beyond this many radii outside the
	// surface during reseeding.
	particleOutlier = 2.0

	// tensionBandCells is the half-width, in cells, of the smeared delta
	// carrying the curvature force onto faces near the interface.
	tensionBandCells = 1.5

	// volumeKp and volumeKi weight the proportional and accumulated terms
	// of the volume-drift divergence bias.
	volumeKp = 0.5
	volumeKi = 0.05

	// maxVolumeBias clamps the relative volume correction applied in one
	// projection so the bias can never destabilize the solve.
	maxVolumeBias = 0.1

	// volumeSupersample is the per-axis supersampling factor for volume
	// estimates.
	volumeSupersample = 2
)

// Simulation is the per-frame stepping wrapper around the staggered MAC
// grid solver. Feature flags gate which sub-steps run and are set during
// scene setup, before the first Step.
type Simulation struct {
	xform        field.Transform
	nx, ny, band int

	vel          *field.VectorGrid
	collisionVel *field.VectorGrid
	surface      *levelset.LevelSet
	collision    *levelset.LevelSet
	viscosity    *field.ScalarGrid

	parts *particles.Set

	airSurface *levelset.LevelSet
	airParts   *particles.Set

	movingSolids     bool
	solveViscosity   bool
	enforceBubbles   bool
	volumeCorrection bool
	trackAir         bool

	stScale      float64
	targetVolume float64
	accumError   float64

	surfaceSet bool
	order      int
}

// New constructs a simulation over an nx x ny grid with the given
// transform and narrow-band half-width in cells.
func New(xform field.Transform, nx, ny, band int) *Simulation {
	if band < 2 {
		band = 5
	}
	dx := xform.DX()
	return &Simulation{
		xform:        xform,
		nx:           nx,
		ny:           ny,
		band:         band,
		vel:          field.NewVectorGrid(xform, nx, ny, 0),
		collisionVel: field.NewVectorGrid(xform, nx, ny, 0),
		surface:      levelset.New(xform, nx, ny, band),
		collision:    levelset.New(xform, nx, ny, band),
		parts:        particles.NewSet(dx/2, particlesPerCell, particleOutlier, true, 1),
		airSurface:   levelset.New(xform, nx, ny, band),
		airParts:     particles.NewSet(dx/2, particlesPerCell, particleOutlier, false, 2),
		order:        3,
	}
}

func (s *Simulation) Transform() field.Transform { return s.xform }
func (s *Simulation) Size() (int, int)           { return s.nx, s.ny }
func (s *Simulation) Velocity() *field.VectorGrid {
	return s.vel
}
func (s *Simulation) Surface() *levelset.LevelSet   { return s.surface }
func (s *Simulation) Collision() *levelset.LevelSet { return s.collision }
func (s *Simulation) Particles() *particles.Set     { return s.parts }

// SetIntegratorOrder selects the Runge-Kutta order (1-3) used by every
// characteristic trace.
func (s *Simulation) SetIntegratorOrder(order int) {
	s.order = order
}

// SetSeed makes particle seeding reproducible. Only placements after the
// call are affected.
func (s *Simulation) SetSeed(seed int64) {
	s.parts.SetSeed(seed)
	s.airParts.SetSeed(seed + 1)
}

// SetCollisionVolume injects the solid boundary.
func (s *Simulation) SetCollisionVolume(ls *levelset.LevelSet) error {
	if !s.matchedLevelSet(ls) {
		return fluid.ErrTransformMismatch
	}
	s.collision = ls.Clone()
	return nil
}

// SetCollisionVelocity injects a moving-solid velocity field and enables
// moving-solid boundary conditions.
func (s *Simulation) SetCollisionVelocity(v *field.VectorGrid) error {
	if !s.matchedVectorGrid(v) {
		return fluid.ErrTransformMismatch
	}
	s.collisionVel = v.Clone()
	s.movingSolids = true
	return nil
}

// DisableMovingSolids reverts solid boundaries to zero velocity.
func (s *Simulation) DisableMovingSolids() {
	s.movingSolids = false
	s.collisionVel.Fill(0)
}

// SetSurfaceVolume injects the liquid region and seeds the marker set
// from its interior.
func (s *Simulation) SetSurfaceVolume(ls *levelset.LevelSet) error {
	if !s.matchedLevelSet(ls) {
		return fluid.ErrTransformMismatch
	}
	s.surface = ls.Clone()
	s.parts.Seed(s.surface)
	s.surfaceSet = true
	return nil
}

// AddSurfaceVolume merges an injected liquid region into the surface and
// reseeds the new interior.
func (s *Simulation) AddSurfaceVolume(ls *levelset.LevelSet) error {
	if !s.surfaceSet {
		return s.SetSurfaceVolume(ls)
	}
	if err := s.surface.Union(ls); err != nil {
		return err
	}
	s.parts.Reseed(s.surface, s.vel)
	return nil
}

// SetSurfaceVelocity overwrites the liquid velocity field.
func (s *Simulation) SetSurfaceVelocity(v *field.VectorGrid) error {
	if !s.matchedVectorGrid(v) {
		return fluid.ErrTransformMismatch
	}
	s.vel = v.Clone()
	return nil
}

// SetSurfaceTension sets the curvature-force coefficient; zero disables
// the effect.
func (s *Simulation) SetSurfaceTension(scale float64) {
	s.stScale = scale
}

// EnforceBubbles treats enclosed air pockets as a tracked incompressible
// phase rather than vacuum during projection.
func (s *Simulation) EnforceBubbles() {
	s.enforceBubbles = true
}

// SetAirVolume initializes the air-phase level set as the complement of
// the liquid within solid-free space, and seeds its marker set.
func (s *Simulation) SetAirVolume() error {
	if !s.surfaceSet {
		return fluid.ErrNotInitialized
	}
	if err := s.airSurface.InitComplement(s.surface, s.collision); err != nil {
		return err
	}
	s.airParts.Seed(s.airSurface)
	s.trackAir = true
	return nil
}

// SetVolumeCorrection enables drift correction, capturing the current
// liquid volume as the target. Must be called after surface setup.
func (s *Simulation) SetVolumeCorrection() error {
	if !s.surfaceSet {
		return fluid.ErrNotInitialized
	}
	s.volumeCorrection = true
	s.targetVolume = s.ComputeVolume(true)
	s.accumError = 0
	return nil
}

// SetViscosity enables the implicit viscosity solve with a uniform
// coefficient.
func (s *Simulation) SetViscosity(coeff float64) {
	s.viscosity = field.NewScalarGrid(s.xform, s.nx, s.ny, coeff)
	s.solveViscosity = true
}

// SetViscosityField enables the viscosity solve with a spatially varying
// coefficient grid.
func (s *Simulation) SetViscosityField(g *field.ScalarGrid) error {
	if !g.Transform().Matches(s.xform) {
		return fluid.ErrTransformMismatch
	}
	nx, ny := g.Size()
	if nx != s.nx || ny != s.ny {
		return fluid.ErrTransformMismatch
	}
	s.viscosity = g.Clone()
	s.solveViscosity = true
	return nil
}

// AddForce accumulates an external acceleration over dt onto the velocity
// grid and the carried particle velocities. Particles must see the force
// too: the transfer stage overwrites particle-covered faces, so a
// grid-only increment would never reach the liquid interior. May be
// called multiple times per step; forces add.
func (s *Simulation) AddForce(f fluid.ForceSampler, dt float64) {
	s.parts.AddForce(f, dt)
	for i := 0; i <= s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			p := s.vel.UWorld(i, j)
			s.vel.SetU(i, j, s.vel.U(i, j)+f.Force(p).X*dt)
		}
	}
	for i := 0; i < s.nx; i++ {
		for j := 0; j <= s.ny; j++ {
			p := s.vel.VWorld(i, j)
			s.vel.SetV(i, j, s.vel.V(i, j)+f.Force(p).Y*dt)
		}
	}
}

// AddConstantForce adds a uniform acceleration such as gravity.
func (s *Simulation) AddConstantForce(a fluid.Vec2, dt float64) {
	s.AddForce(fluid.ConstantForce(a), dt)
}

// AdvectSurface transports the liquid (and tracked air) level sets and
// marker particles through the current velocity field.
func (s *Simulation) AdvectSurface(dt float64, order int) {
	integ := integrators.ByOrder(order)
	advect.SurfaceLevelSet(s.surface, s.vel, dt, integ)
	s.parts.Advect(s.vel, dt, integ)
	if s.trackAir {
		advect.SurfaceLevelSet(s.airSurface, s.vel, dt, integ)
		s.airParts.Advect(s.vel, dt, integ)
	}
}

// AdvectViscosity transports the variable-viscosity field.
func (s *Simulation) AdvectViscosity(dt float64, order int) {
	if !s.solveViscosity {
		return
	}
	src := s.viscosity.Clone()
	advect.Scalar(s.viscosity, src, s.vel, dt, integrators.ByOrder(order))
}

// AdvectVelocity self-advects the velocity field against a snapshot of
// itself.
func (s *Simulation) AdvectVelocity(dt float64, order int) {
	src := s.vel.Clone()
	advect.Velocity(s.vel, src, src, dt, integrators.ByOrder(order))
}

// ComputeVolume estimates the enclosed liquid (or tracked air) area by
// supersampling the level set.
func (s *Simulation) ComputeVolume(liquid bool) float64 {
	if liquid {
		return s.surface.Volume(volumeSupersample)
	}
	return s.airSurface.Volume(volumeSupersample)
}

// MaxVelMag reports the largest velocity magnitude, used by callers to
// derive CFL-bounded substep sizes. The orchestrator does not self-limit
// dt.
func (s *Simulation) MaxVelMag() float64 {
	return s.vel.MaxMagnitude()
}

// Step executes one full physics step. The stage order is fixed; each
// stage consumes and produces in-place state. r, when non-nil, receives
// the post-step surface for display and never influences the physics.
func (s *Simulation) Step(dt float64, r fluid.Renderer) error {
	if dt <= 0 {
		return nil
	}

	s.AdvectSurface(dt, s.order)
	s.AdvectViscosity(dt, s.order)
	s.AdvectVelocity(dt, s.order)

	// Particle velocities overwrite the advected grid where markers give
	// coverage; the semi-Lagrangian result stands in elsewhere.
	s.parts.TransferToGrid(s.vel)

	s.surface.Reinitialize()
	if s.trackAir {
		s.airSurface.Reinitialize()
	}
	s.parts.Reseed(s.surface, s.vel)
	if s.trackAir {
		s.airParts.Reseed(s.airSurface, nil)
	}

	// Snapshot before any forcing so the blended particle delta carries
	// the tension impulse as well as the projection response.
	preSolve := s.vel.Clone()

	if s.stScale != 0 {
		s.addSurfaceTension(dt)
	}

	if err := s.project(dt); err != nil {
		return err
	}

	if s.solveViscosity {
		s.solveViscosityStep(dt)
		extrapolate.Scalar(s.viscosity, s.surface, s.band)
	}

	extrapolate.Velocity(s.vel, s.surface, s.band)
	s.enforceSolidFaces()

	if s.volumeCorrection {
		s.accumError += s.relativeVolumeError() * dt
	}

	s.parts.UpdateFromGrid(s.vel, preSolve, flipRatio)

	if math.IsNaN(s.vel.MaxMagnitude()) {
		return fluid.ErrInvalidState
	}

	if r != nil {
		s.DrawSurface(r)
	}
	return nil
}

// addSurfaceTension applies the continuum curvature force on faces within
// the smeared interface band, ahead of projection.
func (s *Simulation) addSurfaceTension(dt float64) {
	dx := s.xform.DX()
	eps := tensionBandCells * dx

	accel := func(p fluid.Vec2) fluid.Vec2 {
		phi := s.surface.Distance(p)
		if math.Abs(phi) >= eps {
			return fluid.Vec2{}
		}
		delta := 0.5 * (1 + math.Cos(math.Pi*phi/eps)) / eps
		k := s.surface.Curvature(p)
		n := s.surface.Normal(p)
		return n.Scale(-s.stScale * k * delta)
	}

	for i := 0; i <= s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			p := s.vel.UWorld(i, j)
			s.vel.SetU(i, j, s.vel.U(i, j)+accel(p).X*dt)
		}
	}
	for i := 0; i < s.nx; i++ {
		for j := 0; j <= s.ny; j++ {
			p := s.vel.VWorld(i, j)
			s.vel.SetV(i, j, s.vel.V(i, j)+accel(p).Y*dt)
		}
	}
}

// relativeVolumeError is positive when liquid has been lost relative to
// the captured target.
func (s *Simulation) relativeVolumeError() float64 {
	if s.targetVolume <= 0 {
		return 0
	}
	return (s.targetVolume - s.ComputeVolume(true)) / s.targetVolume
}

// enforceSolidFaces pins faces adjacent to solid cells or the domain
// boundary to the collision velocity.
func (s *Simulation) enforceSolidFaces() {
	for i := 0; i <= s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			if s.solidFaceU(i, j) {
				s.vel.SetU(i, j, s.solidVelU(i, j))
			}
		}
	}
	for i := 0; i < s.nx; i++ {
		for j := 0; j <= s.ny; j++ {
			if s.solidFaceV(i, j) {
				s.vel.SetV(i, j, s.solidVelV(i, j))
			}
		}
	}
}

func (s *Simulation) solidCell(i, j int) bool {
	if i < 0 || i >= s.nx || j < 0 || j >= s.ny {
		return true
	}
	return s.collision.Phi().At(i, j) <= 0
}

func (s *Simulation) solidFaceU(i, j int) bool {
	return s.solidCell(i-1, j) || s.solidCell(i, j)
}

func (s *Simulation) solidFaceV(i, j int) bool {
	return s.solidCell(i, j-1) || s.solidCell(i, j)
}

func (s *Simulation) solidVelU(i, j int) float64 {
	if !s.movingSolids {
		return 0
	}
	return s.collisionVel.U(i, j)
}

func (s *Simulation) solidVelV(i, j int) float64 {
	if !s.movingSolids {
		return 0
	}
	return s.collisionVel.V(i, j)
}

func (s *Simulation) matchedLevelSet(ls *levelset.LevelSet) bool {
	nx, ny := ls.Size()
	return ls.Transform().Matches(s.xform) && nx == s.nx && ny == s.ny
}

func (s *Simulation) matchedVectorGrid(v *field.VectorGrid) bool {
	nx, ny := v.Size()
	return v.Transform().Matches(s.xform) && nx == s.nx && ny == s.ny
}
