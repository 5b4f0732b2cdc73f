package task

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a new tracking id: a random 128-bit UUID rendered as 32
// lowercase hex characters with no separators.
func NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
