// Package harness runs declarative hierarchy scenarios for conformance
// testing.
//
// A scenario is a YAML file describing a sequence of mutations (add, move,
// detach, remove) and a set of assertions over the resulting hierarchy
// (parents, depths, paths, roots). The runner executes the scenario against
// a fresh engine on a temporary database, so scenarios are hermetic and
// order-independent.
//
// Scenarios double as golden tests: the final forest is rendered to a
// stable text form and compared against a checked-in golden file. Run the
// package tests with -update to regenerate goldens after an intentional
// behavior change.
package harness
