package utils

import "strings"

// IsEmpty reports whether the string is empty or whitespace only.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}
