// Package bcs implements the BCS-like canonical encoding the tinypay
// contract hashes.
//
// Values form a closed set: Bool, U64, Text, Bytes, Seq and Map. Encoding is
// pure and deterministic; structurally equal values always produce identical
// bytes.
//
// Map is a simplification of BCS struct encoding: values are emitted in
// ascending key order and the keys themselves are not emitted. Two maps with
// different keys but the same values in the same sorted order encode to the
// same bytes. This only matches a Move struct whose fields are declared in
// alphabetical order.
package bcs

// Value is one encodable value. The interface is sealed.
type Value interface {
	isValue()
}

// Bool encodes as a single byte, 0x01 or 0x00.
type Bool bool

// U64 encodes as 8 little-endian bytes.
type U64 uint64

// Text encodes as an 8-byte little-endian byte length followed by UTF-8 bytes.
type Text string

// Bytes encodes as an 8-byte little-endian length followed by the raw bytes.
type Bytes []byte

// Seq encodes as an 8-byte little-endian element count followed by each
// element's encoding, in order.
type Seq []Value

// Map encodes as the concatenation of its values in ascending key order.
type Map map[string]Value

func (Bool) isValue()  {}
func (U64) isValue()   {}
func (Text) isValue()  {}
func (Bytes) isValue() {}
func (Seq) isValue()   {}
func (Map) isValue()   {}
