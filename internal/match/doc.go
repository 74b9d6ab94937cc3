// Package match provides name normalization, Levenshtein distance calculation
// and "did you mean" suggestions for rule, template, schema and field names.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - SnakeCase: canonical base name of a schema or rule
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names against a misspelled one
package match
