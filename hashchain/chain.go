// Package hashchain derives the tinypay one-time value and tail commitment
// from a seed.
//
// Each step after the first hashes the ASCII text of the previous digest's
// lowercase hex, never the 32 raw digest bytes. The on-chain verifier does the
// same; hashing raw bytes produces an incompatible chain.
package hashchain

import (
	"math"

	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/fault"
)

// Chain is the ordered digest sequence produced by Run.
// Index 0 is H(seed).
type Chain struct {
	seed    []byte
	alg     digest.Algorithm
	digests []digest.Digest
}

// Observer is called after each step with the zero-based index and digest.
type Observer func(index uint64, d digest.Digest)

type options struct {
	hasher   digest.Hasher
	observer Observer
}

// Option configures Run.
type Option func(*options)

// WithHasher selects the hash primitive. The default is SHA-256.
func WithHasher(h digest.Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

// WithObserver registers a per-step callback, typically for progress output.
func WithObserver(fn Observer) Option {
	return func(o *options) { o.observer = fn }
}

// HashASCIIOfHex is the chain step: it hashes the ASCII code points of
// hexText as given. No prefix is stripped and the text is not hex decoded.
func HashASCIIOfHex(h digest.Hasher, hexText string) digest.Digest {
	return h.Sum([]byte(hexText))
}

// MaxIterations is the longest chain Run will attempt. Longer chains cannot
// be held in memory.
const MaxIterations = uint64(math.MaxInt / digest.Size)

// preallocLimit caps the up-front slice capacity; longer chains grow by append.
const preallocLimit = 1 << 16

// Run computes a chain of exactly iterations digests.
func Run(seed []byte, iterations uint64, opts ...Option) (*Chain, error) {
	if iterations == 0 {
		return nil, fault.New(fault.KindInvalidArgument, "CHAIN-ARG-001", "iterations must be at least 1")
	}
	if iterations > MaxIterations {
		return nil, fault.Newf(fault.KindInvalidArgument, "CHAIN-ARG-002", "iterations %d exceeds the maximum of %d", iterations, MaxIterations)
	}
	o := options{hasher: digest.SHA256()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Chain{
		seed:    append([]byte(nil), seed...),
		alg:     o.hasher.Algorithm(),
		digests: make([]digest.Digest, 0, min(iterations, preallocLimit)),
	}
	d := o.hasher.Sum(c.seed)
	c.digests = append(c.digests, d)
	if o.observer != nil {
		o.observer(0, d)
	}
	for i := uint64(1); i < iterations; i++ {
		d = HashASCIIOfHex(o.hasher, d.Hex())
		c.digests = append(c.digests, d)
		if o.observer != nil {
			o.observer(i, d)
		}
	}
	return c, nil
}

// Len returns the number of digests.
func (c *Chain) Len() int { return len(c.digests) }

// Algorithm returns the hash algorithm the chain was built with.
func (c *Chain) Algorithm() digest.Algorithm { return c.alg }

// Seed returns a copy of the seed.
func (c *Chain) Seed() []byte { return append([]byte(nil), c.seed...) }

// At returns digest i. It panics when i is out of range, like slice indexing.
func (c *Chain) At(i int) digest.Digest { return c.digests[i] }

// Tail returns the last digest.
func (c *Chain) Tail() digest.Digest { return c.digests[len(c.digests)-1] }

// Penultimate returns the second-to-last digest; ok is false for a
// single-step chain.
func (c *Chain) Penultimate() (d digest.Digest, ok bool) {
	if len(c.digests) < 2 {
		return digest.Zero, false
	}
	return c.digests[len(c.digests)-2], true
}

// OneTimeValue returns the penultimate digest's hex text, or the raw seed
// text when the chain has a single step.
func (c *Chain) OneTimeValue() string {
	if d, ok := c.Penultimate(); ok {
		return d.Hex()
	}
	return string(c.seed)
}

// TailCommitment returns the last digest's hex text.
func (c *Chain) TailCommitment() string { return c.Tail().Hex() }

// Hexes returns the hex text of every digest in order.
func (c *Chain) Hexes() []string {
	out := make([]string, len(c.digests))
	for i, d := range c.digests {
		out[i] = d.Hex()
	}
	return out
}
