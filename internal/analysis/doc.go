// Package analysis implements the deterministic financial analysis pipeline:
// ratio derivation from the latest period, trailing-revenue anomaly
// detection, and the aggregate DocumentAnalysis composition.
//
// Everything in this package is a pure transform over an ordered period
// history. The last element of the history is always the current period.
// Callers may invoke these functions concurrently as long as each call owns
// its input slice.
package analysis
