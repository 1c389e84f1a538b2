// Package bittable provides a packed boolean matrix addressed by
// (major, minor) index.
//
// Each major index owns one bitset row, so whole-row operations (XOR, swap,
// AND-accumulate) run word-at-a-time. Transposing swaps the meaning of the
// two indices in place; callers use it to move the cheap axis to whichever
// index an algorithm iterates over.
package bittable
