package utils

import (
	"fmt"
	"hash"
	"hash/fnv"
)

func U64ToBytes(u uint64) []byte {
	return []byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	}
}

func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// FingerprintValue hashes a literal by dynamic type and printed value, so
// int64(1) and "1" never collide.
func FingerprintValue(v any) uint64 {
	return FingerprintString(fmt.Sprintf("%T:%#v", v, v))
}

// Hasher accumulates node parts into a single fnv-64a fingerprint.
type Hasher struct {
	h hash.Hash64
}

func NewHasher(tag string) *Hasher {
	h := &Hasher{h: fnv.New64a()}
	h.h.Write([]byte(tag))
	h.h.Write([]byte{0})
	return h
}

func (h *Hasher) Str(s string) *Hasher {
	h.h.Write([]byte(s))
	h.h.Write([]byte{0})
	return h
}

func (h *Hasher) U64(u uint64) *Hasher {
	h.h.Write(U64ToBytes(u))
	return h
}

func (h *Hasher) Bool(b bool) *Hasher {
	if b {
		h.h.Write([]byte{1})
	} else {
		h.h.Write([]byte{0})
	}
	return h
}

func (h *Hasher) Sum() uint64 {
	return h.h.Sum64()
}
