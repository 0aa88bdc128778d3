package hashchain

import (
	"strings"

	"tinypay.dev/paykit/digest"
)

// Verify reports whether tailHex is the chain step applied to
// oneTimeValueHex, using SHA-256. A mismatch is a normal false result.
func Verify(oneTimeValueHex, tailHex string) bool {
	return VerifyWith(digest.SHA256(), oneTimeValueHex, tailHex)
}

// VerifyWith is Verify with an explicit hash primitive.
//
// The one-time value is hashed exactly as given, mirroring a chain step.
// tailHex may carry a "0x" prefix and is compared as lowercase text.
func VerifyWith(h digest.Hasher, oneTimeValueHex, tailHex string) bool {
	got := HashASCIIOfHex(h, oneTimeValueHex).Hex()
	want := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tailHex), "0x"))
	return got == want
}
