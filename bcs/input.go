package bcs

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"tinypay.dev/paykit/fault"
)

// InputMode selects how ParseInput interprets text.
type InputMode int

const (
	// InputAuto tries JSON, then a bare number, then falls back to text.
	InputAuto InputMode = iota
	// InputJSON requires a JSON document.
	InputJSON
	// InputString takes the text verbatim.
	InputString
)

// integerLiteral accepts an optional sign and single underscores between digits.
var integerLiteral = regexp.MustCompile(`^[+-]?[0-9](?:_?[0-9])*$`)

// ParseInput converts command line or stdin text into a Value.
//
// In InputAuto mode the text is trimmed first. A bare number containing "."
// is a float and fails with UnsupportedType, as do NaN and Infinity.
func ParseInput(text string, mode InputMode) (Value, error) {
	switch mode {
	case InputString:
		return Text(text), nil
	case InputJSON:
		return FromJSON([]byte(text))
	}

	s := strings.TrimSpace(text)
	var x any
	if err := jsonNumbers.Unmarshal([]byte(s), &x); err == nil {
		return FromGo(x)
	}
	switch s {
	case "NaN", "Infinity", "-Infinity":
		return nil, fault.Newf(fault.KindUnsupportedType, "ENC-TYPE-001", "unsupported data type float (%s)", s)
	}
	if strings.Contains(s, ".") {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return nil, fault.Newf(fault.KindUnsupportedType, "ENC-TYPE-001", "unsupported data type float (%s)", s)
		}
		return Text(s), nil
	}
	if integerLiteral.MatchString(s) {
		n, ok := new(big.Int).SetString(strings.ReplaceAll(strings.TrimPrefix(s, "+"), "_", ""), 10)
		if ok {
			return fromBig(n)
		}
	}
	return Text(s), nil
}

// TypeName names the variant of v for diagnostics.
func TypeName(v Value) string {
	switch v.(type) {
	case Bool:
		return "bool"
	case U64:
		return "u64"
	case Text:
		return "string"
	case Bytes:
		return "vector<u8>"
	case Seq:
		return "vector"
	case Map:
		return "struct"
	default:
		return "unsupported"
	}
}
