package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintValueDistinguishesTypes(t *testing.T) {
	assert.NotEqual(t, FingerprintValue(1), FingerprintValue("1"))
	assert.NotEqual(t, FingerprintValue(int64(1)), FingerprintValue(1))
	assert.Equal(t, FingerprintValue([]int{1, 2}), FingerprintValue([]int{1, 2}))
}

func TestHasherSeparatesParts(t *testing.T) {
	a := NewHasher("x").Str("ab").Str("c").Sum()
	b := NewHasher("x").Str("a").Str("bc").Sum()
	assert.NotEqual(t, a, b)

	assert.Equal(t, NewHasher("t").U64(7).Bool(true).Sum(), NewHasher("t").U64(7).Bool(true).Sum())
	assert.NotEqual(t, NewHasher("t").Bool(true).Sum(), NewHasher("t").Bool(false).Sum())
}

func TestMixAllOrderMatters(t *testing.T) {
	assert.NotEqual(t, MixAll(1, 2, 3), MixAll(1, 3, 2))
	assert.Equal(t, uint64(9), MixAll(9))
}
