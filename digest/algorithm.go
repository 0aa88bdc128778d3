package digest

import (
	"hash"
	"sort"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"tinypay.dev/paykit/fault"
)

// Algorithm names a 32-byte hash function available to Move contracts
// (aptos_std::hash / aptos_std::aptos_hash).
type Algorithm string

const (
	SHA2_256   Algorithm = "sha2-256"
	SHA3_256   Algorithm = "sha3-256"
	Keccak256  Algorithm = "keccak-256"
	Blake2b256 Algorithm = "blake2b-256"
)

// Default is the algorithm the tinypay contract verifies with.
const Default = SHA2_256

type algInfo struct {
	newHash func() hash.Hash
	mhCode  uint64
}

var algorithms = map[Algorithm]algInfo{
	SHA2_256:  {newHash: sha256.New, mhCode: multihash.SHA2_256},
	SHA3_256:  {newHash: sha3.New256, mhCode: multihash.SHA3_256},
	Keccak256: {newHash: sha3.NewLegacyKeccak256, mhCode: multihash.KECCAK_256},
	Blake2b256: {
		newHash: func() hash.Hash {
			// New256 only fails for keys longer than 64 bytes.
			h, _ := blake2b.New256(nil)
			return h
		},
		mhCode: multihash.BLAKE2B_MIN + Size - 1,
	},
}

// Algorithms returns the supported algorithms sorted by name.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, len(algorithms))
	for a := range algorithms {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseAlgorithm resolves an algorithm name. The empty string selects Default.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "":
		return Default, nil
	case "sha256":
		n = string(SHA2_256)
	case "sha3_256":
		n = string(SHA3_256)
	case "keccak256":
		n = string(Keccak256)
	case "blake2b_256":
		n = string(Blake2b256)
	}
	a := Algorithm(n)
	if _, ok := algorithms[a]; !ok {
		return "", fault.Newf(fault.KindInvalidArgument, "HASH-ALG-001", "unsupported hash algorithm %q", name)
	}
	return a, nil
}

// MultihashCode returns the multicodec code for a, or 0 if a is unknown.
func (a Algorithm) MultihashCode() uint64 {
	return algorithms[a].mhCode
}

func (a Algorithm) String() string { return string(a) }

// Hasher is the single hash capability consumed by the core.
type Hasher interface {
	Sum(data []byte) Digest
	Algorithm() Algorithm
}

type hasher struct {
	alg     Algorithm
	newHash func() hash.Hash
}

// New returns a Hasher for alg.
func New(alg Algorithm) (Hasher, error) {
	s, ok := algorithms[alg]
	if !ok {
		return nil, fault.Newf(fault.KindInvalidArgument, "HASH-ALG-001", "unsupported hash algorithm %q", alg)
	}
	return hasher{alg: alg, newHash: s.newHash}, nil
}

// MustNew is like New but panics on an unknown algorithm.
func MustNew(alg Algorithm) Hasher {
	h, err := New(alg)
	if err != nil {
		panic(err)
	}
	return h
}

// SHA256 returns the default hasher.
func SHA256() Hasher {
	return hasher{alg: SHA2_256, newHash: sha256.New}
}

func (h hasher) Algorithm() Algorithm { return h.alg }

func (h hasher) Sum(data []byte) Digest {
	w := h.newHash()
	_, _ = w.Write(data)
	var out Digest
	copy(out[:], w.Sum(nil))
	return out
}

// Sum hashes data with the default algorithm.
func Sum(data []byte) Digest {
	return SHA256().Sum(data)
}
