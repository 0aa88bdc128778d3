package bridge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypay.dev/paykit/fault"
)

func TestHexToASCIIBytes_IsNotHexDecoding(t *testing.T) {
	assert.Equal(t, []byte{97, 100, 98, 54}, HexToASCIIBytes("0xadb6"))
	assert.Equal(t, []byte{97, 100, 98, 54}, HexToASCIIBytes("adb6"))
	assert.Equal(t, []byte{97, 98}, HexToASCIIBytes("ab"))
	assert.NotEqual(t, []byte{0xab}, HexToASCIIBytes("ab"))
}

func TestHexToASCIIBytes_LengthPreserving(t *testing.T) {
	inputs := []string{"", "0x", "0", "deadbeef", "0xdeadbeef", strings.Repeat("f", 64), "0x0x12", "xyz!"}
	for _, in := range inputs {
		want := len(strings.TrimPrefix(in, "0x"))
		assert.Len(t, HexToASCIIBytes(in), want, "input %q", in)
	}
}

func TestHexToASCIIBytes_StripsOnlyOnePrefix(t *testing.T) {
	assert.Equal(t, []byte("0x12"), HexToASCIIBytes("0x0x12"))
	// Uppercase prefix is not a prefix.
	assert.Equal(t, []byte("0X12"), HexToASCIIBytes("0X12"))
}

func TestHexToASCIIBytes_NonASCIIYieldsUTF8Bytes(t *testing.T) {
	assert.Equal(t, []byte{0xc3, 0xa9}, HexToASCIIBytes("é"))
	assert.Equal(t, []byte{'a', 0xc3, 0xa9}, HexToASCIIBytes("0xaé"))
	assert.Equal(t, "[195, 169]", FormatList(HexToASCIIBytes("é")))
}

func TestHexToASCIIBytes_NoValidation(t *testing.T) {
	assert.Equal(t, []byte{'g', 'Z', ' ', '-'}, HexToASCIIBytes("gZ -"))
	assert.Equal(t, []byte{'A', 'B'}, HexToASCIIBytes("AB"))
}

func TestASCIIBytesToHex(t *testing.T) {
	assert.Equal(t, "48656c6c6f", ASCIIBytesToHex([]byte{72, 101, 108, 108, 111}))
	assert.Equal(t, "000aff", ASCIIBytesToHex([]byte{0, 10, 255}))
	// Only an inverse when the bytes are ASCII hex digits.
	assert.NotEqual(t, "adb6", ASCIIBytesToHex(HexToASCIIBytes("adb6")))
	assert.Equal(t, "adb6", ASCIIBytesToString(HexToASCIIBytes("adb6")))
	assert.Equal(t, "Hello", ASCIIBytesToString([]byte{72, 101, 108, 108, 111}))
}

func TestValidateHex(t *testing.T) {
	require.NoError(t, ValidateHex("0xDEADbeef"))
	require.NoError(t, ValidateHex(""))
	err := ValidateHex("12g4")
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindParse))
	assert.Equal(t, "HEX-PARSE-003", fault.RuleID(err))
}

func TestFormats(t *testing.T) {
	b := []byte{72, 101, 108, 108, 111}
	assert.Equal(t, "[72, 101, 108, 108, 111]", FormatList(b))
	assert.Equal(t, "[72, 101, 108, 108, 111]", FormatJSON(b))
	var back []int
	require.NoError(t, json.Unmarshal([]byte(FormatJSON(b)), &back))
	assert.Equal(t, Ints(b), back)
	assert.Equal(t, "vector<u8>:[72,101,108,108,111]", FormatMoveArg(ArgVectorU8, b))
	assert.Equal(t, "u8:[72,101,108,108,111]", FormatMoveArg(ArgU8, b))
	assert.Equal(t, "u8:[]", FormatMoveArg("", nil))
	assert.Equal(t, "[]", FormatList(nil))
	assert.Equal(t, "[]", FormatJSON(nil))
}

func TestParseArgType(t *testing.T) {
	for in, want := range map[string]ArgType{"": ArgU8, "u8": ArgU8, "vector": ArgVectorU8, "vector<u8>": ArgVectorU8} {
		got, err := ParseArgType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseArgType("u64")
	assert.True(t, fault.IsKind(err, fault.KindInvalidArgument))
}

func TestParseDecimalList(t *testing.T) {
	got, err := ParseDecimalList("72, 101,108 ,108,111")
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), got)

	got, err = ParseDecimalList(FormatList([]byte{1, 2, 255}))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 255}, got)

	got, err = ParseDecimalList("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseDecimalList("72,abc")
	assert.True(t, fault.IsKind(err, fault.KindParse))
	assert.Equal(t, "BRIDGE-PARSE-001", fault.RuleID(err))

	_, err = ParseDecimalList("72,256")
	assert.True(t, fault.IsKind(err, fault.KindInvalidArgument))
	_, err = ParseDecimalList("-1")
	assert.Equal(t, "BRIDGE-ARG-001", fault.RuleID(err))
}
