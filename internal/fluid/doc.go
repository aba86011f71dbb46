// Package fluid provides the shared primitives for the 2D liquid simulator.
//
// The package defines the vector type and the small interfaces every other
// package composes against:
//
//   - [Vec2]: world-space position or velocity
//   - [VelocityField]: anything that can be sampled for velocity at a point
//   - [ForceSampler]: external acceleration source for force application
//   - [Integrator]: explicit ODE step used by every characteristic trace
//   - [Renderer]: externally supplied drawing surface the core reports to
//
// # Thread Safety
//
// Simulation state is single-threaded by contract. Per-element loops inside
// a stage may fan out through [ParallelFor]; ordering between stages is
// strict and callers must not mutate injected fields during a step.
package fluid
