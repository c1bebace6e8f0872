package seed

import (
	"encoding/json"
	"fmt"
)

// Codec turns a seed into a byte string and back. The queue core never
// interprets the bytes; it only requires the pair to be deterministic
// and round-trip exact. Embedders may plug in their own framework.
type Codec interface {
	// Marshal serializes a seed to bytes.
	Marshal(s *Seed) ([]byte, error)

	// Unmarshal deserializes a seed from bytes.
	Unmarshal(data []byte) (*Seed, error)
}

// JSONCodec is the default Codec.
type JSONCodec struct{}

// NewJSONCodec creates a JSONCodec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Marshal serializes a seed to JSON.
func (c *JSONCodec) Marshal(s *Seed) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seed %d: %w", s.Meta.ID, err)
	}
	return data, nil
}

// Unmarshal deserializes a seed from JSON.
func (c *JSONCodec) Unmarshal(data []byte) (*Seed, error) {
	var s Seed
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed: %w", err)
	}
	return &s, nil
}
