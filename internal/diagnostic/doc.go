// Package diagnostic provides structured errors, warnings and notes produced
// while validating rule files, compiling them and inspecting finished rules.
//
// Key capabilities:
//   - Stable codes for each kind of problem
//   - Rule and field context on every message
//   - "did you mean" suggestions for misspelled names
package diagnostic
