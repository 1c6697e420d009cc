// Package harness loads declarative test files and validates every test run
// they describe before anything is launched.
//
// # Test File Format
//
// Test files are YAML (.yaml, .yml) or CUE (.cue) documents:
//
//	name: talker_listener
//	description: "talker publishes until the listener is up"
//	generate_test_description:
//	  params: [rate]
//	  parametrize:
//	    - name: rate
//	      values: [10, 20]
//	  description:
//	    - action: execute_process
//	      args: { cmd: "talker --rate ${rate}" }
//	    - timer: 2.5
//	      actions:
//	        - ready_to_test: true
//
// Each description entry takes exactly one form:
//
//   - ready_to_test: true: the readiness sentinel
//   - action: <type> with optional args: an opaque action
//   - timer: <seconds> with actions: entries delayed by a period
//   - include: <path>: the description of another test file, spliced in
//   - actions alone: a plain group
//
// Any entry except ready_to_test may carry "if" or "unless" with an
// expression; it is compiled at load time and never evaluated here.
//
// String arguments may reference parameters as ${name}. An argument that is
// exactly "${name}" takes the parameter's literal value, type included.
//
// # Loading Phases
//
// LoadTestFile runs three phases and stops at the first that fails:
//
//  1. Structural: strict decode (unknown fields are rejected)
//  2. Schema: the decoded document is checked against JSONSchema()
//  3. Domain: entry forms, timer periods, conditions, sweep literals
//
// # Running
//
// Harness.Run expands the generator into test runs and validates each run on
// its own. A failing run never stops the others; its outcome records the
// failure kind, code and message verbatim.
package harness
