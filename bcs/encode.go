package bcs

import (
	"encoding/binary"
	"fmt"
	"sort"

	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/fault"
)

// Encode returns the canonical encoding of v.
//
// A nil value anywhere in the tree fails with UnsupportedType.
func Encode(v Value) ([]byte, error) {
	return appendValue(nil, v)
}

// MustEncode is like Encode but panics on error. Use it for literals only.
func MustEncode(v Value) []byte {
	b, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return b
}

func appendLen(dst []byte, n int) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(n))
}

func appendValue(dst []byte, v Value) ([]byte, error) {
	switch x := v.(type) {
	case Bool:
		if x {
			return append(dst, 0x01), nil
		}
		return append(dst, 0x00), nil
	case U64:
		return binary.LittleEndian.AppendUint64(dst, uint64(x)), nil
	case Text:
		dst = appendLen(dst, len(x))
		return append(dst, x...), nil
	case Bytes:
		dst = appendLen(dst, len(x))
		return append(dst, x...), nil
	case Seq:
		dst = appendLen(dst, len(x))
		for i, elem := range x {
			var err error
			dst, err = appendValue(dst, elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return dst, nil
	case Map:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		// Byte order of UTF-8 strings equals code point order.
		sort.Strings(keys)
		for _, k := range keys {
			var err error
			dst, err = appendValue(dst, x[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
		}
		return dst, nil
	default:
		return nil, fault.Newf(fault.KindUnsupportedType, "ENC-TYPE-001", "unsupported value type %T", v)
	}
}

// Hash encodes v and hashes the result once.
func Hash(h digest.Hasher, v Value) (digest.Digest, error) {
	b, err := Encode(v)
	if err != nil {
		return digest.Zero, err
	}
	return h.Sum(b), nil
}
