// Package validate enforces the static guarantees a test run must meet
// before any process is launched:
//
//   - Match: every formal parameter of the generator has a value, and every
//     available value has a formal parameter
//   - RequireSentinel: the generated action tree contains a ReadyToTest
//     action, at any depth
//
// Validator.Validate chains the two around the generator invocation. Every
// failure is a *Failure carrying the offending identifier in its message.
package validate
