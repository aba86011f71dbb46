package sim

import (
	"math"

	"github.com/fluidlab/flip2d/internal/fluid"
)

type cellLabel uint8

const (
	cellAir cellLabel = iota
	cellLiquid
	cellBubble
	cellSolid
)

const (
	// solverTolerance is the relative residual reduction the conjugate
	// gradient solve must reach.
	solverTolerance = 1e-9

	// solverMaxIterations bounds the conjugate gradient iteration count.
	solverMaxIterations = 4000
)

// labelCells classifies every cell for projection: solid from the
// collision volume, liquid from the surface, bubble from the tracked air
// pocket when enforcement is on, vacuum air otherwise.
func (s *Simulation) labelCells() []cellLabel {
	labels := make([]cellLabel, s.nx*s.ny)
	for i := 0; i < s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			k := i*s.ny + j
			switch {
			case s.collision.Phi().At(i, j) <= 0:
				labels[k] = cellSolid
			case s.surface.Phi().At(i, j) <= 0:
				labels[k] = cellLiquid
			case s.enforceBubbles && s.trackAir && s.airSurface.Phi().At(i, j) <= 0:
				labels[k] = cellBubble
			default:
				labels[k] = cellAir
			}
		}
	}
	return labels
}

// faceDivergence computes the discrete divergence of cell (i, j) with
// solid faces replaced by the collision velocity.
func (s *Simulation) faceDivergence(i, j int) float64 {
	uL := s.vel.U(i, j)
	if s.solidFaceU(i, j) {
		uL = s.solidVelU(i, j)
	}
	uR := s.vel.U(i+1, j)
	if s.solidFaceU(i+1, j) {
		uR = s.solidVelU(i+1, j)
	}
	vB := s.vel.V(i, j)
	if s.solidFaceV(i, j) {
		vB = s.solidVelV(i, j)
	}
	vT := s.vel.V(i, j+1)
	if s.solidFaceV(i, j+1) {
		vT = s.solidVelV(i, j+1)
	}
	return (uR - uL + vT - vB) / s.xform.DX()
}

// project solves the pressure Poisson equation over liquid (and, with
// bubble enforcement, enclosed-air) cells and subtracts the pressure
// gradient so the velocity field is divergence-free subject to the
// free-surface, solid, and bubble boundary conditions. When volume
// correction is active the liquid divergence target is biased by the
// accumulated drift.
func (s *Simulation) project(dt float64) error {
	labels := s.labelCells()
	dx := s.xform.DX()

	unknown := make([]int, s.nx*s.ny)
	var cells []int
	for k, l := range labels {
		if l == cellLiquid || l == cellBubble {
			unknown[k] = len(cells)
			cells = append(cells, k)
		} else {
			unknown[k] = -1
		}
	}
	if len(cells) == 0 {
		return nil
	}

	bias := 0.0
	if s.volumeCorrection {
		bias = volumeKp*s.relativeVolumeError() + volumeKi*s.accumError
		if bias > maxVolumeBias {
			bias = maxVolumeBias
		} else if bias < -maxVolumeBias {
			bias = -maxVolumeBias
		}
		bias /= dt
	}

	n := len(cells)
	diag := make([]float64, n)
	links := make([][]int32, n)
	b := make([]float64, n)
	scale := dx * dx / dt

	for idx, k := range cells {
		i, j := k/s.ny, k%s.ny

		target := 0.0
		if labels[k] == cellLiquid {
			target = bias
		}
		b[idx] = (target - s.faceDivergence(i, j)) * scale

		visit := func(ni, nj int) {
			if ni < 0 || ni >= s.nx || nj < 0 || nj >= s.ny {
				return
			}
			nk := ni*s.ny + nj
			if labels[nk] == cellSolid {
				return
			}
			diag[idx]++
			if u := unknown[nk]; u >= 0 {
				links[idx] = append(links[idx], int32(u))
			}
		}
		visit(i-1, j)
		visit(i+1, j)
		visit(i, j-1)
		visit(i, j+1)
	}

	removeNullspace(diag, links, b)

	p, ok := conjugateGradient(diag, links, b)
	if !ok {
		return fluid.ErrSolverDiverged
	}

	// Subtract the pressure gradient across non-solid faces. Pressure in
	// vacuum air is zero by the free-surface condition.
	pressureAt := func(i, j int) float64 {
		if i < 0 || i >= s.nx || j < 0 || j >= s.ny {
			return 0
		}
		if u := unknown[i*s.ny+j]; u >= 0 {
			return p[u]
		}
		return 0
	}
	grad := dt / dx

	for i := 1; i < s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			if s.solidFaceU(i, j) {
				s.vel.SetU(i, j, s.solidVelU(i, j))
				continue
			}
			lk := labels[(i-1)*s.ny+j]
			rk := labels[i*s.ny+j]
			if lk == cellAir && rk == cellAir {
				continue
			}
			s.vel.SetU(i, j, s.vel.U(i, j)-grad*(pressureAt(i, j)-pressureAt(i-1, j)))
		}
	}
	for i := 0; i < s.nx; i++ {
		for j := 1; j < s.ny; j++ {
			if s.solidFaceV(i, j) {
				s.vel.SetV(i, j, s.solidVelV(i, j))
				continue
			}
			bk := labels[i*s.ny+j-1]
			tk := labels[i*s.ny+j]
			if bk == cellAir && tk == cellAir {
				continue
			}
			s.vel.SetV(i, j, s.vel.V(i, j)-grad*(pressureAt(i, j)-pressureAt(i, j-1)))
		}
	}

	// Domain-boundary faces behave as solid walls.
	for j := 0; j < s.ny; j++ {
		s.vel.SetU(0, j, s.solidVelU(0, j))
		s.vel.SetU(s.nx, j, s.solidVelU(s.nx, j))
	}
	for i := 0; i < s.nx; i++ {
		s.vel.SetV(i, 0, s.solidVelV(i, 0))
		s.vel.SetV(i, s.ny, s.solidVelV(i, s.ny))
	}
	return nil
}

// removeNullspace projects the right-hand side onto the solvable space for
// sealed regions: a connected component with no vacuum contact admits
// pressure only up to a constant, so its mean divergence target must be
// zero.
func removeNullspace(diag []float64, links [][]int32, b []float64) {
	n := len(diag)
	comp := make([]int32, n)
	for i := range comp {
		comp[i] = -1
	}

	var stack []int32
	next := int32(0)
	for start := 0; start < n; start++ {
		if comp[start] >= 0 {
			continue
		}
		id := next
		next++

		sealed := true
		sum := 0.0
		count := 0

		stack = append(stack[:0], int32(start))
		comp[start] = id
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if diag[c] > float64(len(links[c])) {
				// A vacuum neighbor pins the pressure level.
				sealed = false
			}
			sum += b[c]
			count++

			for _, nb := range links[c] {
				if comp[nb] < 0 {
					comp[nb] = id
					stack = append(stack, nb)
				}
			}
		}

		if sealed && count > 0 {
			mean := sum / float64(count)
			for c := 0; c < n; c++ {
				if comp[c] == id {
					b[c] -= mean
				}
			}
		}
	}
}

// conjugateGradient solves the symmetric positive (semi-)definite system
// assembled from the cell labels. Returns false if the iteration produces
// a non-finite value.
func conjugateGradient(diag []float64, links [][]int32, b []float64) ([]float64, bool) {
	n := len(diag)
	x := make([]float64, n)
	r := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)

	copy(r, b)
	copy(p, b)

	dot := func(a, c []float64) float64 {
		sum := 0.0
		for i := range a {
			sum += a[i] * c[i]
		}
		return sum
	}

	bNorm := dot(b, b)
	if bNorm == 0 {
		return x, true
	}
	tol := solverTolerance * bNorm

	sigma := bNorm
	for iter := 0; iter < solverMaxIterations; iter++ {
		for i := 0; i < n; i++ {
			v := diag[i] * p[i]
			for _, nb := range links[i] {
				v -= p[nb]
			}
			ap[i] = v
		}

		pap := dot(p, ap)
		if pap <= 0 {
			break
		}
		alpha := sigma / pap
		if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
			return nil, false
		}

		for i := 0; i < n; i++ {
			x[i] += alpha * p[i]
			r[i] -= alpha * ap[i]
		}

		sigmaNew := dot(r, r)
		if sigmaNew < tol {
			break
		}
		beta := sigmaNew / sigma
		for i := 0; i < n; i++ {
			p[i] = r[i] + beta*p[i]
		}
		sigma = sigmaNew
	}
	return x, true
}
