// Package match provides key normalization, edit distance, and "did you mean"
// ranking for the keywords and field names that appear in mapping configs.
//
// Key functions:
//   - NormalizeKey: folds a field name or keyword into a comparable form
//   - Levenshtein: computes edit distance between strings (rune aware)
//   - Similarity: normalized similarity score in [0, 1]
//   - Suggest: ranks candidates that are close enough to an unknown input
package match
