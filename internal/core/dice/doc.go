// Package dice rolls dice, applies keep-high/keep-low selection and evaluates
// free-text dice expressions such as "4d6kh3+2".
//
// Randomness always comes from a Source so callers decide between a
// per-request seeded stream (NewSource) and a process-wide stream shared
// under a lock (NewLockedSource).
package dice
