// Package advect implements semi-Lagrangian transport: each grid sample
// traces its characteristic backward through the velocity field and
// resamples the source there. Larger dt relative to the grid spacing
// increases diffusion and overshoot risk; callers substep to a CFL bound.
package advect

import (
	"github.com/fluidlab/flip2d/internal/field"
	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/levelset"
)

// Scalar transports a cell-centered field, writing into dst. dst and src
// must be distinct matched grids.
func Scalar(dst, src *field.ScalarGrid, vel fluid.VelocityField, dt float64, integ fluid.Integrator) {
	nx, ny := dst.Size()
	fluid.ParallelFor(nx, 8, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < ny; j++ {
				back := integ.Trace(dst.CellWorld(i, j), -dt, vel)
				dst.Set(i, j, src.Sample(back))
			}
		}
	})
}

// Velocity transports a staggered field through the carrying velocity,
// component by component. Pass the same grid as src and vel for
// self-advection against a snapshot: dst must be distinct from src.
func Velocity(dst, src *field.VectorGrid, vel fluid.VelocityField, dt float64, integ fluid.Integrator) {
	nx, ny := dst.Size()

	fluid.ParallelFor(nx+1, 8, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < ny; j++ {
				back := integ.Trace(dst.UWorld(i, j), -dt, vel)
				dst.SetU(i, j, src.Sample(back).X)
			}
		}
	})

	fluid.ParallelFor(nx, 8, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < ny+1; j++ {
				back := integ.Trace(dst.VWorld(i, j), -dt, vel)
				dst.SetV(i, j, src.Sample(back).Y)
			}
		}
	})
}

// SurfaceLevelSet transports a level set's distance field in place.
func SurfaceLevelSet(ls *levelset.LevelSet, vel fluid.VelocityField, dt float64, integ fluid.Integrator) {
	src := ls.Phi().Clone()
	Scalar(ls.Phi(), src, vel, dt, integ)
}

// Points traces particle positions forward through the velocity field.
func Points(pts []fluid.Vec2, vel fluid.VelocityField, dt float64, integ fluid.Integrator) {
	fluid.ParallelFor(len(pts), 256, func(start, end int) {
		for k := start; k < end; k++ {
			pts[k] = integ.Trace(pts[k], dt, vel)
		}
	})
}
