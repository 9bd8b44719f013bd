package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a random version 4 UUID. A non-empty prefix is joined to
// it with an underscore.
func GenerateID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
