// Package cidutil derives IPFS-compatible content identifiers for commitment
// digests and stored records.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"tinypay.dev/paykit/digest"
)

// DigestCID wraps an already computed digest in a CIDv1 with the "raw"
// multicodec. The multihash code is taken from alg.
func DigestCID(alg digest.Algorithm, d digest.Digest) (cid.Cid, error) {
	code := alg.MultihashCode()
	if code == 0 {
		return cid.Undef, fmt.Errorf("cidutil: no multihash code for %q", alg)
	}
	mh, err := multihash.Encode(d[:], code)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// CIDv1Raw hashes data with h and returns the raw CIDv1 of the digest.
func CIDv1Raw(h digest.Hasher, data []byte) (cid.Cid, error) {
	return DigestCID(h.Algorithm(), h.Sum(data))
}

// DigestOf extracts the digest and algorithm from a CID produced by this
// package.
func DigestOf(id cid.Cid) (digest.Algorithm, digest.Digest, error) {
	var d digest.Digest
	dec, err := multihash.Decode(id.Hash())
	if err != nil {
		return "", d, err
	}
	if dec.Length != digest.Size {
		return "", d, fmt.Errorf("cidutil: digest length %d, want %d", dec.Length, digest.Size)
	}
	for _, a := range digest.Algorithms() {
		if a.MultihashCode() == dec.Code {
			copy(d[:], dec.Digest)
			return a, d, nil
		}
	}
	return "", d, fmt.Errorf("cidutil: unsupported multihash code 0x%x", dec.Code)
}
