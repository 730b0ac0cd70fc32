// Package store holds the state document codec shared by the persistent
// StateStore adapters in its subpackages.
package store

import (
	"encoding/json"
	"fmt"

	"mintgate/internal/mint/models"
)

// Encode renders the state as the persisted JSON document.
func Encode(st *models.State) ([]byte, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode mint state: %w", err)
	}
	return b, nil
}

// Decode parses a persisted document and normalizes it.
func Decode(b []byte) (*models.State, error) {
	var st models.State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode mint state: %w", err)
	}
	st.Normalize()
	return &st, nil
}
