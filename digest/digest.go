// Package digest is the hash primitive shared by the chain engine, the
// canonical encoder and the verifier.
//
// Every algorithm produces a 32-byte digest. The canonical text form of a
// digest is lowercase hexadecimal without a prefix.
package digest

import (
	"encoding/hex"
	"strings"

	"tinypay.dev/paykit/fault"
)

// Size is the digest length in bytes.
const Size = 32

// HexLen is the length of a digest's hex text.
const HexLen = Size * 2

// Digest is one hash output.
type Digest [Size]byte

// Zero is the all-zero digest.
var Zero Digest

// Hex returns the lowercase hex text of d.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) String() string { return d.Hex() }

// Bytes returns a copy of the raw digest bytes.
func (d Digest) Bytes() []byte {
	return append([]byte(nil), d[:]...)
}

// ParseHex decodes a 64-character hex digest, optionally prefixed with "0x".
// Upper and lower case digits are both accepted.
func ParseHex(text string) (Digest, error) {
	var d Digest
	s := strings.TrimPrefix(strings.TrimSpace(text), "0x")
	if len(s) != HexLen {
		return d, fault.Newf(fault.KindParse, "HEX-PARSE-001", "digest must be %d hex characters, got %d", HexLen, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fault.Wrap(fault.KindParse, "HEX-PARSE-002", "invalid hex digest", err)
	}
	copy(d[:], b)
	return d, nil
}
