// Package verify runs verification suites against simulated reaction
// networks.
//
// A Suite is an ordered list of cases. Each case calls its SetupFunc, which
// parses and simulates a model into a fresh Fixture, then runs a Check
// against that fixture. Fixtures are never shared between cases. The runner
// is sequential and, with FailFast, stops at the first failing case.
package verify
