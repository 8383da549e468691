// Package hashing provides hash function abstractions used by keyed
// containers to index entries by key.
package hashing

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"strconv"

	"github.com/OneOfOne/xxhash"
	"github.com/zeebo/xxh3"
)

// HashFunc is a function that takes a Hashable object
// and returns a string representation of its hash.
// As an example, the Sha256 function is a HashFunc.
// This lets us talk about hash functions in a generic way.
//
// A HashFunc must be consistent: objects that compare equal must
// produce identical hash strings.
type HashFunc func(hashable Hashable) (string, error)

// Hashable is an interface that allows an object to update
// a hash.Hash with its contents. Keyed containers use it to
// derive a stable index key from arbitrary key types.
type Hashable interface {
	UpdateHash(h hash.Hash) error
}

// Sha256 returns the SHA256 hash of the given Hashable as a hex-encoded
// string. Cryptographically strong, collision-resistant, and the slowest
// of the provided hash functions.
func Sha256(hashable Hashable) (string, error) {
	h := sha256.New()

	if err := hashable.UpdateHash(h); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// XXHash64 returns the xxHash64 hash of the given Hashable as a
// hex-encoded string. Fast and non-cryptographic; suitable for in-memory
// indexing where adversarial collisions are not a concern.
func XXHash64(hashable Hashable) (string, error) {
	h := xxhash.New64()

	if err := hashable.UpdateHash(h); err != nil {
		return "", err
	}

	return strconv.FormatUint(h.Sum64(), 16), nil
}

// XXH3 returns the XXH3 hash of the given Hashable as a hex-encoded
// string. The fastest of the provided hash functions; non-cryptographic.
func XXH3(hashable Hashable) (string, error) {
	h := xxh3.New()

	if err := hashable.UpdateHash(h); err != nil {
		return "", err
	}

	return strconv.FormatUint(h.Sum64(), 16), nil
}

// HashableString is a string that can be hashed and compared,
// making it usable as a container key.
type HashableString string

func (s HashableString) String() string {
	return string(s)
}

func (s HashableString) UpdateHash(h hash.Hash) error {
	_, err := h.Write([]byte(s))

	return err
}

func (s HashableString) Equals(other HashableString) bool {
	return s == other
}

// HashableInt is an int that can be hashed and compared,
// making it usable as a container key.
type HashableInt int

func (i HashableInt) UpdateHash(h hash.Hash) error {
	return writeUint64(h, uint64(i))
}

func (i HashableInt) Equals(other HashableInt) bool {
	return i == other
}

// HashableInt64 is an int64 that can be hashed and compared,
// making it usable as a container key.
type HashableInt64 int64

func (i HashableInt64) UpdateHash(h hash.Hash) error {
	return writeUint64(h, uint64(i))
}

func (i HashableInt64) Equals(other HashableInt64) bool {
	return i == other
}

// HashableUint64 is a uint64 that can be hashed and compared,
// making it usable as a container key.
type HashableUint64 uint64

func (u HashableUint64) UpdateHash(h hash.Hash) error {
	return writeUint64(h, uint64(u))
}

func (u HashableUint64) Equals(other HashableUint64) bool {
	return u == other
}

// HashableBytes is a byte slice that can be hashed and compared,
// making it usable as a container key.
type HashableBytes []byte

func (b HashableBytes) UpdateHash(h hash.Hash) error {
	_, err := h.Write(b)

	return err
}

func (b HashableBytes) Equals(other HashableBytes) bool {
	if len(b) != len(other) {
		return false
	}

	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}

	return true
}

func writeUint64(h hash.Hash, value uint64) error {
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], value)

	_, err := h.Write(buf[:])

	return err
}
