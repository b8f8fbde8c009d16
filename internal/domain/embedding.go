package domain

import (
	dErrors "warden/pkg/domain-errors"
)

// EmbeddingDim is the fixed dimensionality of face embeddings. The external
// feature extractor produces 128-dimensional vectors; every embedding
// entering the core is validated against this before use.
const EmbeddingDim = 128

// Embedding is a face feature vector.
type Embedding []float64

// Validate checks the dimensionality contract.
// Errors: CodeInvalidInput on a wrong-length vector.
func (e Embedding) Validate() error {
	if len(e) != EmbeddingDim {
		return dErrors.Newf(dErrors.CodeInvalidInput, "embedding must have %d dimensions, got %d", EmbeddingDim, len(e))
	}
	return nil
}

// Clone returns an independent copy so snapshot holders can hand out
// embeddings without aliasing store-owned memory.
func (e Embedding) Clone() Embedding {
	if e == nil {
		return nil
	}
	out := make(Embedding, len(e))
	copy(out, e)
	return out
}
