// Package generator holds test description generators and their
// parametrization.
//
// A Generator is a named function with an explicit, ordered list of formal
// parameter names. Go cannot recover parameter names by reflection, so the
// names are declared when the generator is registered.
//
// Parametrize attaches sweeps to a generator without validating them. Expand
// turns a generator (parametrized or not) into the ordered list of TestRuns
// to validate and execute. Mismatches between sweeps and formal parameters
// are reported later, by the validate package, once per run.
package generator
