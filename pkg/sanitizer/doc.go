// Package sanitizer normalizes user supplied text before it is validated
// and stored. Slot labels and treatment names are compared by exact string
// equality, so every write path runs them through the same normalizer.
package sanitizer
