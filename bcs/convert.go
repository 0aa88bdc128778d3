package bcs

import (
	"fmt"
	"math/big"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"tinypay.dev/paykit/fault"
)

var jsonNumbers = jsoniter.Config{
	EscapeHTML: true,
	UseNumber:  true,
}.Froze()

// FromJSON decodes a JSON document into a Value.
//
// Objects become Map, arrays Seq, strings Text, booleans Bool and integral
// numbers U64. Floats and null are UnsupportedType; negative or oversized
// integers are InvalidArgument.
func FromJSON(data []byte) (Value, error) {
	var x any
	if err := jsonNumbers.Unmarshal(data, &x); err != nil {
		return nil, fault.Wrap(fault.KindParse, "ENC-JSON-001", "malformed JSON", err)
	}
	return FromGo(x)
}

// FromGo converts a dynamically typed Go value into a Value.
func FromGo(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return nil, unsupported(x)
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return Text(v), nil
	case []byte:
		return Bytes(append([]byte(nil), v...)), nil
	case int:
		return fromSigned(int64(v))
	case int8:
		return fromSigned(int64(v))
	case int16:
		return fromSigned(int64(v))
	case int32:
		return fromSigned(int64(v))
	case int64:
		return fromSigned(v)
	case uint:
		return U64(v), nil
	case uint8:
		return U64(v), nil
	case uint16:
		return U64(v), nil
	case uint32:
		return U64(v), nil
	case uint64:
		return U64(v), nil
	case *big.Int:
		return fromBig(v)
	case float32, float64:
		return nil, unsupported(x)
	case []Value:
		return Seq(v), nil
	case map[string]Value:
		return Map(v), nil
	case []any:
		out := make(Seq, len(v))
		for i, elem := range v {
			ev, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = ev
		}
		return out, nil
	case map[string]any:
		out := make(Map, len(v))
		for k, elem := range v {
			ev, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = ev
		}
		return out, nil
	}
	if num, ok := jsoniter.CastJsonNumber(x); ok {
		return fromNumberText(num)
	}
	return nil, unsupported(x)
}

func unsupported(x any) error {
	return fault.Newf(fault.KindUnsupportedType, "ENC-TYPE-001", "unsupported data type %T", x)
}

func fromSigned(n int64) (Value, error) {
	if n < 0 {
		return nil, errNegative(big.NewInt(n))
	}
	return U64(uint64(n)), nil
}

func fromBig(n *big.Int) (Value, error) {
	if n == nil {
		return nil, unsupported(n)
	}
	if n.Sign() < 0 {
		return nil, errNegative(n)
	}
	if !n.IsUint64() {
		return nil, fault.Newf(fault.KindInvalidArgument, "ENC-INT-002", "integer %s does not fit in u64", n.String())
	}
	return U64(n.Uint64()), nil
}

func errNegative(n *big.Int) error {
	return fault.Newf(fault.KindInvalidArgument, "ENC-INT-001", "negative integer %s cannot be encoded", n.String())
}

// fromNumberText handles a JSON number literal. Literals with a fraction or
// exponent are floats.
func fromNumberText(s string) (Value, error) {
	if strings.ContainsAny(s, ".eE") {
		return nil, fault.Newf(fault.KindUnsupportedType, "ENC-TYPE-001", "unsupported data type float (%s)", s)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fault.Newf(fault.KindInvalidArgument, "ENC-INT-003", "malformed integer %q", s)
	}
	return fromBig(n)
}
