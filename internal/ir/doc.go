// Package ir provides the literal value model shared by test-run expansion,
// validation and persistence.
//
// Parameter sweep values and action arguments are IRValues. The set of types
// is sealed: IRString, IRInt, IRBool, IRArray, IRObject and IRNull.
//
// Key design constraints:
//   - NO float types: a literal must render the same way on every machine,
//     because it feeds test-run labels and content-addressed run IDs
//   - Object keys are always iterated in RFC 8785 order (SortedKeys)
//   - ir imports nothing internal
package ir
