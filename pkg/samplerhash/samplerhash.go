// Package samplerhash supplies the hash64(trace_id) -> uint64 collaborator
// the sampling decision path depends on. The reference sampler uses
// MurmurHash64A; this package also exposes an xxhash-backed alternative so a
// host can swap hash sources without touching pkg/sampler.
package samplerhash

import "github.com/cespare/xxhash/v2"

// Hash64 deterministically maps a trace id to a uint64 used to pick a
// sampling residue class.
type Hash64 func(traceID string) uint64

// defaultSeed is the seed the original Dynatrace Envoy sampler extension
// uses for MurmurHash64A.
const defaultSeed uint64 = 0xe17a1465

// Murmur64A returns the MurmurHash64A of traceID's UTF-8 bytes, seeded with
// the reference implementation's constant (0xe17a1465).
func Murmur64A(traceID string) uint64 {
	return murmurHash64A([]byte(traceID), defaultSeed)
}

// XXHash64 is an alternative Hash64 backed by github.com/cespare/xxhash/v2,
// for hosts that already standardise on xxhash elsewhere in their pipeline.
func XXHash64(traceID string) uint64 {
	return xxhash.Sum64String(traceID)
}

// murmurHash64A is Austin Appleby's 64-bit variant A of MurmurHash2,
// operating on 8-byte words with a multiply-xor mix, matching the
// C++ reference implementation bit for bit.
func murmurHash64A(data []byte, seed uint64) uint64 {
	const m uint64 = 0xc6a4a7935bd1e995
	const r = 47

	h := seed ^ (uint64(len(data)) * m)

	n := len(data) / 8
	for i := 0; i < n; i++ {
		k := le64(data[i*8 : i*8+8])
		k *= m
		k ^= k >> r
		k *= m

		h ^= k
		h *= m
	}

	tail := data[n*8:]
	switch len(tail) {
	case 7:
		h ^= uint64(tail[6]) << 48
		fallthrough
	case 6:
		h ^= uint64(tail[5]) << 40
		fallthrough
	case 5:
		h ^= uint64(tail[4]) << 32
		fallthrough
	case 4:
		h ^= uint64(tail[3]) << 24
		fallthrough
	case 3:
		h ^= uint64(tail[2]) << 16
		fallthrough
	case 2:
		h ^= uint64(tail[1]) << 8
		fallthrough
	case 1:
		h ^= uint64(tail[0])
		h *= m
	}

	h ^= h >> r
	h *= m
	h ^= h >> r

	return h
}

func le64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}
