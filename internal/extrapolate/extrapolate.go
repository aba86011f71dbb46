// Package extrapolate extends valid field values from inside the liquid
// narrow band into adjacent air and solid cells, layer by layer, so
// advection and projection stay well-defined near the interface. Samples
// farther than the band width keep their prior values.
package extrapolate

import (
	"github.com/fluidlab/flip2d/internal/field"
	"github.com/fluidlab/flip2d/internal/levelset"
)

// lattice sweeps one sample lattice. valid marks load-bearing samples;
// each pass assigns invalid samples adjacent to valid ones the average of
// their valid neighbors, then promotes them.
func lattice(nx, ny int, valid []bool, at func(k int) float64, set func(k int, v float64), band int) {
	next := make([]bool, len(valid))

	for layer := 0; layer < band; layer++ {
		copy(next, valid)
		changed := false

		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				k := i*ny + j
				if valid[k] {
					continue
				}

				sum := 0.0
				count := 0
				if i > 0 && valid[k-ny] {
					sum += at(k - ny)
					count++
				}
				if i < nx-1 && valid[k+ny] {
					sum += at(k + ny)
					count++
				}
				if j > 0 && valid[k-1] {
					sum += at(k - 1)
					count++
				}
				if j < ny-1 && valid[k+1] {
					sum += at(k + 1)
					count++
				}

				if count > 0 {
					set(k, sum/float64(count))
					next[k] = true
					changed = true
				}
			}
		}

		copy(valid, next)
		if !changed {
			break
		}
	}
}

// Velocity extends both staggered components outward by band cells from
// the liquid region described by surface. A face is initially valid when
// it touches the liquid interior. Tolerates empty narrow bands by leaving
// every sample untouched.
func Velocity(vel *field.VectorGrid, surface *levelset.LevelSet, band int) {
	nx, ny := vel.Size()

	uValid := make([]bool, (nx+1)*ny)
	for i := 0; i <= nx; i++ {
		for j := 0; j < ny; j++ {
			uValid[i*ny+j] = surface.Distance(vel.UWorld(i, j)) <= 0
		}
	}
	lattice(nx+1, ny, uValid,
		func(k int) float64 { return vel.U(k/ny, k%ny) },
		func(k int, v float64) { vel.SetU(k/ny, k%ny, v) },
		band)

	uvNY := ny + 1
	vValid := make([]bool, nx*uvNY)
	for i := 0; i < nx; i++ {
		for j := 0; j <= ny; j++ {
			vValid[i*uvNY+j] = surface.Distance(vel.VWorld(i, j)) <= 0
		}
	}
	lattice(nx, uvNY, vValid,
		func(k int) float64 { return vel.V(k/uvNY, k%uvNY) },
		func(k int, v float64) { vel.SetV(k/uvNY, k%uvNY, v) },
		band)
}

// Scalar extends a cell-centered field, such as variable viscosity,
// outward by band cells from the liquid interior.
func Scalar(g *field.ScalarGrid, surface *levelset.LevelSet, band int) {
	nx, ny := g.Size()

	valid := make([]bool, nx*ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			valid[i*ny+j] = surface.Distance(g.CellWorld(i, j)) <= 0
		}
	}
	lattice(nx, ny, valid,
		func(k int) float64 { return g.At(k/ny, k%ny) },
		func(k int, v float64) { g.Set(k/ny, k%ny, v) },
		band)
}
