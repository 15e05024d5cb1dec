package utils

import "strings"

// FingerprintString hashes s. Identical input yields identical output across
// processes, so it is safe to persist.
func FingerprintString(s string) uint64 {
	return NameHash(s)
}

// FingerprintParts hashes the ordered parts joined by a separator that cannot
// appear in Go identifiers or type expressions.
func FingerprintParts(parts ...string) uint64 {
	return FingerprintString(strings.Join(parts, "\x00"))
}
