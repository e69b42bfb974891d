package utils

import "github.com/google/uuid"

// GenerateUUID returns a new random identifier for task requests
func GenerateUUID() string {
	return uuid.New().String()
}

// IsUUID reports whether id parses as a UUID
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
