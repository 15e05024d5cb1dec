package utils

import "github.com/cespare/xxhash/v2"

// HashBuckets is the fixed bucket count of member name hash tables.
const HashBuckets = 256

// HashMask maps a name hash onto a bucket.
const HashMask = HashBuckets - 1

// NameHash returns the 64-bit hash of a member name.
func NameHash(name string) uint64 {
	return xxhash.Sum64String(name)
}

// NameBucket returns the bucket of name in a HashBuckets sized table.
func NameBucket(name string) int {
	return int(NameHash(name) & HashMask)
}
