// Package dynamo provides core simulation primitives for reaction kinetics.
//
// The package defines the interfaces shared by the network, integrator and
// simulator packages:
//
//   - [State]: vector of floating species concentrations
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator
//   - [AdaptiveIntegrator]: integrator with an embedded error estimate
//   - [Metric]: observer that summarizes a run
//
// # Example
//
//	m, _ := network.Parse(src)
//	integ := integrators.NewRK45()
//	x := m.InitialState()
//	x = integ.Step(m, x, 0, 0.01)
package dynamo
