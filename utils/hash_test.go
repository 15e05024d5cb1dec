package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameBucket(t *testing.T) {
	names := []string{"", "a", "abc", "Combine", "PrivateStaticMethod", "xxx"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			b := NameBucket(name)
			assert.GreaterOrEqual(t, b, 0)
			assert.Less(t, b, HashBuckets)
			assert.Equal(t, b, NameBucket(name), "bucket must be stable")
		})
	}
}

func TestNameHashDistinguishes(t *testing.T) {
	assert.NotEqual(t, NameHash("a"), NameHash("b"))
	assert.Equal(t, NameHash("abc"), FingerprintString("abc"))
}

func TestFingerprintParts(t *testing.T) {
	assert.Equal(t, FingerprintParts("a", "b"), FingerprintParts("a", "b"))
	assert.NotEqual(t, FingerprintParts("ab", "c"), FingerprintParts("a", "bc"))
}
