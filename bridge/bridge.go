// Package bridge converts hex digest text into the byte vectors the tinypay
// contract consumes.
//
// The forward conversion is NOT hex decoding: every character of the text
// becomes one byte holding its ASCII code point, so "ab" yields [97 98] and
// not [0xab]. The contract hashes and compares these ASCII vectors.
package bridge

import (
	"encoding/hex"
	"strings"
)

// HexPrefix is stripped once from the start of hex text.
const HexPrefix = "0x"

// HexToASCIIBytes returns the ASCII code point of every character of hexText
// after stripping one leading "0x".
//
// Precondition: hexText is hex digit text. The function does not check it;
// any other character is passed through as its byte value. Go strings are
// byte sequences, so non-ASCII input yields its UTF-8 bytes.
func HexToASCIIBytes(hexText string) []byte {
	s := strings.TrimPrefix(hexText, HexPrefix)
	out := make([]byte, len(s))
	copy(out, s)
	return out
}

// ASCIIBytesToHex renders each byte as two lowercase hex digits.
//
// This is a debugging and fixture helper. It only inverts HexToASCIIBytes
// when the bytes are themselves the ASCII codes of hex digits.
func ASCIIBytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// ASCIIBytesToString interprets b as ASCII text.
func ASCIIBytesToString(b []byte) string {
	return string(b)
}

// ValidateHex reports whether text (after an optional "0x") consists only of
// hex digits. HexToASCIIBytes never calls it.
func ValidateHex(text string) error {
	s := strings.TrimPrefix(text, HexPrefix)
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return errNonHex(i, s[i])
		}
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
