package bridge

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"tinypay.dev/paykit/fault"
)

// ArgType is the Move type tag used in an aptos CLI argument.
type ArgType string

const (
	ArgU8       ArgType = "u8"
	ArgVectorU8 ArgType = "vector<u8>"
)

// ParseArgType accepts "u8", "vector", "vector<u8>" and "" (u8).
func ParseArgType(s string) (ArgType, error) {
	switch strings.TrimSpace(s) {
	case "", "u8":
		return ArgU8, nil
	case "vector", "vector<u8>":
		return ArgVectorU8, nil
	default:
		return "", fault.Newf(fault.KindInvalidArgument, "BRIDGE-ARG-002", "unknown argument type %q", s)
	}
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func joinDecimal(b []byte, sep string) string {
	var sb strings.Builder
	sb.Grow(len(b) * 4)
	for i, v := range b {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	return sb.String()
}

// FormatList renders b as a decimal list, "[97, 100, 98, 54]".
func FormatList(b []byte) string {
	return "[" + joinDecimal(b, ", ") + "]"
}

// FormatJSON renders b as a JSON array of numbers with the default Python
// json.dumps separators, "[97, 100, 98, 54]".
func FormatJSON(b []byte) string {
	out, err := json.Marshal(Ints(b))
	if err != nil {
		// Marshalling a []int cannot fail.
		return FormatList(b)
	}
	// The array holds only numbers, so every comma is an element separator.
	return strings.ReplaceAll(string(out), ",", ", ")
}

// FormatMoveArg renders b as an aptos CLI argument, "u8:[97,100]".
func FormatMoveArg(typ ArgType, b []byte) string {
	if typ == "" {
		typ = ArgU8
	}
	return string(typ) + ":[" + joinDecimal(b, ",") + "]"
}

// Ints widens b so encoders render numbers instead of base64.
func Ints(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

// ParseDecimalList parses comma separated byte values such as "72,101,108".
// Surrounding brackets are accepted so FormatList output parses back.
func ParseDecimalList(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return []byte{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]byte, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fault.Wrap(fault.KindParse, "BRIDGE-PARSE-001",
				"invalid byte value at position "+strconv.Itoa(i)+": "+strconv.Quote(p), err)
		}
		if n < 0 || n > 255 {
			return nil, fault.Newf(fault.KindInvalidArgument, "BRIDGE-ARG-001",
				"byte value %d at position %d is outside 0-255", n, i)
		}
		out = append(out, byte(n))
	}
	return out, nil
}

func errNonHex(pos int, c byte) error {
	return fault.Newf(fault.KindParse, "HEX-PARSE-003", "non-hex character %q at position %d", c, pos)
}
