package fluid

import "errors"

// Domain errors for simulation setup and stepping.
var (
	// ErrTransformMismatch indicates an injected field whose transform does
	// not match the simulation's internal grids.
	ErrTransformMismatch = errors.New("flip2d: transform mismatch between fields")

	// ErrNotInitialized indicates a setter called before its prerequisite
	// state exists (e.g. volume correction before a surface volume).
	ErrNotInitialized = errors.New("flip2d: required state not initialized")

	// ErrSolverDiverged indicates the pressure solve failed to converge.
	ErrSolverDiverged = errors.New("flip2d: pressure solver diverged")

	// ErrInvalidState indicates NaN or Inf appeared in a velocity sample.
	ErrInvalidState = errors.New("flip2d: invalid state (NaN or Inf detected)")
)
