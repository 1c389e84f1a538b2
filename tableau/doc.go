// Package tableau implements stabilizer tableaux: the GF(2) symplectic
// matrix plus sign vector describing how a Clifford operation conjugates
// each single-qubit generator X_k and Z_k.
//
// A tableau T stores, for every input qubit k, the Pauli strings T(X_k) and
// T(Z_k). Operations are composed in two directions:
//
//   - Prepend (T ← T∘G) rewrites the rows for G's targets in terms of
//     existing rows. Rows are contiguous in the default layout, so this is
//     the cheap direction.
//   - Append (T ← G∘T) touches one output column of every row. It is only
//     offered through a TransposedView, which flips the storage so that
//     output columns become contiguous for the lifetime of the view.
//
// The simulator's collapse uses only part of the view (AppendH, AppendHYZ,
// AppendX, AppendCX and the Z observable accessors). The remaining appends,
// the X observable accessors, InplaceScatterAppend and Then are provided for
// callers that drive a tableau directly.
package tableau
