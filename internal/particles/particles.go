// Package particles implements the Lagrangian marker set used to track
// liquid and to move velocity between particles and grid with reduced
// numerical diffusion (FLIP/PIC transfer).
package particles

import (
	"math/rand"

	"github.com/fluidlab/flip2d/internal/advect"
	"github.com/fluidlab/flip2d/internal/field"
	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/levelset"
)

// Set is an unordered, dynamically sized particle collection. Every
// position stays within the domain captured at seeding time.
type Set struct {
	radius   float64
	perCell  int
	outlier  float64
	trackVel bool

	pos []fluid.Vec2
	vel []fluid.Vec2
	rng *rand.Rand

	xform  field.Transform
	nx, ny int
	seeded bool
}

// NewSet configures a marker set. radius is the particle radius (usually
// half the grid spacing), perCell the target density per interior cell,
// outlier the deletion distance in radii outside the surface. trackVel
// enables carried velocities for FLIP transfer.
func NewSet(radius float64, perCell int, outlier float64, trackVel bool, seed int64) *Set {
	if perCell < 1 {
		perCell = 1
	}
	return &Set{
		radius:   radius,
		perCell:  perCell,
		outlier:  outlier,
		trackVel: trackVel,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// SetSeed resets the jitter RNG. Call before Seed for reproducible
// placements.
func (s *Set) SetSeed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

func (s *Set) Len() int                 { return len(s.pos) }
func (s *Set) Positions() []fluid.Vec2  { return s.pos }
func (s *Set) Velocities() []fluid.Vec2 { return s.vel }
func (s *Set) TracksVelocity() bool     { return s.trackVel }

// Seed discards any existing particles and fills the interior of the
// level set at the target density with jittered placements.
func (s *Set) Seed(ls *levelset.LevelSet) {
	s.xform = ls.Transform()
	s.nx, s.ny = ls.Size()
	s.seeded = true
	s.pos = s.pos[:0]
	s.vel = s.vel[:0]

	nx, ny := s.nx, s.ny
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if ls.Phi().At(i, j) > 0 {
				continue
			}
			s.fillCell(ls, i, j, s.perCell, nil)
		}
	}
}

func (s *Set) fillCell(ls *levelset.LevelSet, i, j, want int, vel *field.VectorGrid) int {
	added := 0
	// Twice the budget of attempts covers cells the interface cuts.
	for try := 0; try < 2*want && added < want; try++ {
		p := s.xform.World(float64(i)+s.rng.Float64(), float64(j)+s.rng.Float64())
		if ls.Distance(p) > 0 {
			continue
		}
		s.pos = append(s.pos, p)
		if s.trackVel {
			v := fluid.Vec2{}
			if vel != nil {
				v = vel.Sample(p)
			}
			s.vel = append(s.vel, v)
		}
		added++
	}
	return added
}

// AddForce accumulates an external acceleration over dt onto every
// carried velocity. No-op for sets without velocity tracking.
func (s *Set) AddForce(f fluid.ForceSampler, dt float64) {
	if !s.trackVel {
		return
	}
	for k := range s.vel {
		s.vel[k] = s.vel[k].Add(f.Force(s.pos[k]).Scale(dt))
	}
}

// Advect traces every particle forward through the velocity field and
// clamps the result into the domain bounds.
func (s *Set) Advect(vel fluid.VelocityField, dt float64, integ fluid.Integrator) {
	advect.Points(s.pos, vel, dt, integ)

	if !s.seeded {
		return
	}
	lo := s.xform.World(0, 0)
	hi := s.xform.World(float64(s.nx), float64(s.ny))
	eps := 1e-4 * s.xform.DX()
	for k := range s.pos {
		p := &s.pos[k]
		if p.X < lo.X+eps {
			p.X = lo.X + eps
		} else if p.X > hi.X-eps {
			p.X = hi.X - eps
		}
		if p.Y < lo.Y+eps {
			p.Y = lo.Y + eps
		} else if p.Y > hi.Y-eps {
			p.Y = hi.Y - eps
		}
	}
}

// Reseed deletes particles that drifted beyond the outlier distance
// outside the tracked region and refills cells whose density dropped
// below target. Each call changes the population by no more than the
// local surplus plus the local deficit.
func (s *Set) Reseed(ls *levelset.LevelSet, vel *field.VectorGrid) (added, removed int) {
	if !s.seeded {
		s.Seed(ls)
		return len(s.pos), 0
	}

	cutoff := s.outlier * s.radius
	keep := 0
	for k := range s.pos {
		if ls.Distance(s.pos[k]) > cutoff {
			removed++
			continue
		}
		s.pos[keep] = s.pos[k]
		if s.trackVel {
			s.vel[keep] = s.vel[k]
		}
		keep++
	}
	s.pos = s.pos[:keep]
	if s.trackVel {
		s.vel = s.vel[:keep]
	}

	counts := make([]int, s.nx*s.ny)
	for _, p := range s.pos {
		i, j := s.xform.Index(p)
		ci, cj := int(i), int(j)
		if ci >= 0 && ci < s.nx && cj >= 0 && cj < s.ny {
			counts[ci*s.ny+cj]++
		}
	}

	for i := 0; i < s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			if ls.Phi().At(i, j) > 0 {
				continue
			}
			if deficit := s.perCell - counts[i*s.ny+j]; deficit > 0 {
				added += s.fillCell(ls, i, j, deficit, vel)
			}
		}
	}
	return added, removed
}
