package seed

import "bytes"

// Seed represents a single fuzzer input plus its metadata. The queue
// core treats Data as an opaque byte payload; only the executor and the
// coverage oracle interpret it.
type Seed struct {
	Meta Metadata `json:"meta"` // Metadata for lineage tracking and resume
	Data []byte   `json:"data"` // Raw test input handed to the target
}

// New creates a seed for the given payload with its content hash filled in.
func New(data []byte) *Seed {
	return &Seed{
		Meta: Metadata{ContentHash: HashBytes(data)},
		Data: data,
	}
}

// Hash returns the seed's content hash, computing and caching it if the
// metadata does not carry one yet.
func (s *Seed) Hash() string {
	if s.Meta.ContentHash == "" {
		s.Meta.ContentHash = HashBytes(s.Data)
	}
	return s.Meta.ContentHash
}

// Equal reports whether a and b are the same seed: same ID and same
// payload. It is the equality the durable queue uses to verify removals.
func Equal(a, b *Seed) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Meta.ID != b.Meta.ID {
		return false
	}
	if a.Meta.ContentHash != "" && b.Meta.ContentHash != "" {
		return a.Meta.ContentHash == b.Meta.ContentHash
	}
	return bytes.Equal(a.Data, b.Data)
}
