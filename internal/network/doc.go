// Package network parses reaction-network models and evaluates their kinetics.
//
// Models are written in a compact line-oriented reaction notation:
//
//	// first-order cascade
//	J1: S1 -> S2; k1*S1
//	J2: S2 -> S3; k2*S2
//	S1 = 10
//	k1 = 1; k2 = 0.5
//
// Each reaction lists reactants and products with optional stoichiometric
// coefficients, followed by a rate law. Names that take part in a reaction are
// species; every other assigned name is a parameter. A species written as
// $Name is a boundary species and keeps its initial concentration.
//
// Rate laws and assignments are arithmetic over names, numbers, time and the
// functions exp, ln, log, log10, sqrt, abs, floor, ceil, sin, cos, pow, min
// and max, with ^ for powers. They are compiled with expr-lang/expr.
//
// A parsed [Model] implements [dynamo.System] over its floating species, so it
// can be handed straight to an integrator:
//
//	m, err := network.Parse(src)
//	x := m.InitialState()
//	x = integrators.NewRK4().Step(m, x, 0, 0.01)
package network
