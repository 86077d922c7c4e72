package utils

import (
	"github.com/google/uuid"
)

// NewRandomID returns a new unique ID (used for job IDs and etags).
func NewRandomID() string {
	return uuid.New().String()
}

// IsValidID reports whether the given string is an ID we could have minted.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
