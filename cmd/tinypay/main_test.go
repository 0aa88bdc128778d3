package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypay.dev/paykit/aptos"
	"tinypay.dev/paykit/bcs"
	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/hashchain"
)

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{out: &out, errOut: &errOut}
	code = a.execute(args, strings.NewReader(stdin))
	return code, out.String(), errOut.String()
}

func TestRun_NoArgsIsUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(nil, &out, &errOut)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "Usage:")
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "", "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, _ := runCLI(t, "", "hash", "--nope", "x")
	assert.Equal(t, 2, code)
}

func TestWorkflow_Text(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "workflow", "hello", "-n", "3")
	require.Equal(t, 0, code)

	c, err := hashchain.Run([]byte("hello"), 3)
	require.NoError(t, err)
	assert.Contains(t, stdout, "=== TinyPay Payment Workflow ===")
	assert.Contains(t, stdout, "Iterations: 3")
	assert.Contains(t, stdout, "Iteration 1: "+c.At(0).Hex())
	assert.Contains(t, stdout, "opt (hex): "+c.At(1).Hex())
	assert.Contains(t, stdout, "tail (hex): "+c.At(2).Hex())
	assert.Contains(t, stdout, "Verification: ✓ PASS")
	assert.NotContains(t, stdout, "...")
	assert.Regexp(t, regexp.MustCompile(`opt parameter: u8:\[[0-9,]+\]`), stdout)
}

func TestWorkflow_LongChainElides(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "workflow", "seed", "-n", "10")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Iteration 3: ")
	assert.NotContains(t, stdout, "Iteration 4: ")
	assert.Contains(t, stdout, "...\nIteration 8: ")
	assert.Contains(t, stdout, "Iteration 10: ")
}

func TestWorkflow_ZeroIterations(t *testing.T) {
	code, _, stderr := runCLI(t, "", "workflow", "hello", "-n", "0")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "INVALID_ARGUMENT")
	assert.Contains(t, stderr, "CHAIN-ARG-001")
}

func TestWorkflow_OversizedIterations(t *testing.T) {
	code, _, stderr := runCLI(t, "", "workflow", "x", "-n", "18446744073709551615")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "CHAIN-ARG-002")
}

func TestWorkflow_StoreAndRecordGet(t *testing.T) {
	dir := t.TempDir()
	code, stdout, _ := runCLI(t, "", "workflow", "hello", "-n", "3", "--store", dir, "--json-output")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "=== JSON Output ===")
	assert.Contains(t, stdout, `"verification_ok": true`)

	m := regexp.MustCompile(`Record CID: (\S+)`).FindStringSubmatch(stdout)
	require.Len(t, m, 2)

	code, got, _ := runCLI(t, "", "record", "get", m[1], "--store", dir)
	require.Equal(t, 0, code)
	assert.Contains(t, got, `"cid": "`+m[1]+`"`)
	assert.Contains(t, got, `"iterations": 3`)
}

func TestRecordGet_Absent(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "workflow", "hello", "-n", "2", "--store", t.TempDir())
	require.Equal(t, 0, code)
	m := regexp.MustCompile(`Record CID: (\S+)`).FindStringSubmatch(stdout)
	require.Len(t, m, 2)

	code, _, stderr := runCLI(t, "", "record", "get", m[1], "--store", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "NOT_FOUND")
	assert.Contains(t, stderr, "STORE-001")
}

func TestRecordGet_NoStore(t *testing.T) {
	code, _, _ := runCLI(t, "", "record", "get", "bafy")
	assert.Equal(t, 2, code)
}

func TestHash_Argument(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "hash", "hello")
	require.Equal(t, 0, code)
	want, err := bcs.Hash(digest.SHA256(), bcs.Text("hello"))
	require.NoError(t, err)
	assert.Equal(t, want.Hex()+"\n", stdout)
}

func TestHash_StdinDropsOneNewline(t *testing.T) {
	code, stdout, _ := runCLI(t, "hello\n", "hash", "--string")
	require.Equal(t, 0, code)
	want, err := bcs.Hash(digest.SHA256(), bcs.Text("hello"))
	require.NoError(t, err)
	assert.Equal(t, want.Hex()+"\n", stdout)

	code, stdout, _ = runCLI(t, "hello\n", "hash", "--string", "--keep-newline")
	require.Equal(t, 0, code)
	want, err = bcs.Hash(digest.SHA256(), bcs.Text("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, want.Hex()+"\n", stdout)
}

func TestHash_JSONAndDebug(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "hash", "--json", "--debug", "-o", "json", "[1,2]")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `"type": "vector"`)
	assert.Contains(t, stdout, `"bcs_length": 24`)
	assert.Contains(t, stderr, "bcs length: 24")
}

func TestHash_Errors(t *testing.T) {
	code, _, stderr := runCLI(t, "", "hash", "1.5")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "UNSUPPORTED_TYPE")

	code, _, stderr = runCLI(t, "", "hash", "--", "-5")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "INVALID_ARGUMENT")

	code, _, _ = runCLI(t, "", "hash", "--json", "--string", "x")
	assert.Equal(t, 2, code)
}

func TestBridge_Formats(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"bridge", "0xad"}, "[97, 100]\n"},
		{[]string{"bridge", "--format", "json", "ad"}, "[97, 100]\n"},
		{[]string{"bridge", "--format", "aptos", "ad"}, "u8:[97,100]\n"},
		{[]string{"bridge", "--format", "aptos", "--arg-type", "vector<u8>", "ad"}, "vector<u8>:[97,100]\n"},
		{[]string{"bridge", "--format", "string", "ad"}, "ad\n"},
	}
	for _, tc := range cases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			code, stdout, _ := runCLI(t, "", tc.args...)
			require.Equal(t, 0, code)
			assert.Equal(t, tc.want, stdout)
		})
	}
}

func TestBridge_ReverseAndStrict(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "bridge", "--reverse", "97,100")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "ASCII bytes: [97, 100]")
	assert.Contains(t, stdout, "String: ad")

	code, _, stderr := runCLI(t, "", "bridge", "--reverse", "97,x")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "PARSE_ERROR")

	code, _, _ = runCLI(t, "", "bridge", "--strict", "0xzz")
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, "", "bridge", "--format", "yaml", "ad")
	assert.Equal(t, 2, code)
}

func TestVerify(t *testing.T) {
	c, err := hashchain.Run([]byte("hello"), 3)
	require.NoError(t, err)

	code, stdout, _ := runCLI(t, "", "verify", c.OneTimeValue(), "0x"+strings.ToUpper(c.TailCommitment()))
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "✓ PASS")

	code, stdout, _ = runCLI(t, "", "verify", "-o", "json", c.TailCommitment(), c.OneTimeValue())
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, `"ok": false`)
}

func TestConfigInitAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinypay.yaml")
	code, stdout, _ := runCLI(t, "", "config", "init", path)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "wrote "+path)

	code, _, _ = runCLI(t, "", "config", "init", path)
	assert.Equal(t, 1, code)

	require.NoError(t, os.WriteFile(path, []byte("chain:\n  iterations: 2\n"), 0o644))
	code, stdout, _ = runCLI(t, "", "--config", path, "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "iterations: 2")

	code, stdout, _ = runCLI(t, "", "--config", path, "workflow", "hello")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Iterations: 2")
}

type recordingRunner struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := name + " " + strings.Join(args, " ")
	r.lines = append(r.lines, line)
	if strings.Contains(line, "is_coin_supported") {
		return `{"Result":[true]}`, nil
	}
	return "", nil
}

func TestUSDC_SetupAndDemo(t *testing.T) {
	r := &recordingRunner{}
	var out, errOut bytes.Buffer
	a := &app{out: &out, errOut: &errOut, runner: r}
	code := a.execute([]string{"usdc", "--profile", "testnet", "setup", "--amount", "7"}, nil)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "✓ step 6 check balance")
	assert.Contains(t, r.lines, "aptos move run --function-id @tinypay::test_usdc::mint_to_admin --profile testnet --assume-yes --args u64:7")

	out.Reset()
	a = &app{out: &out, errOut: &errOut, runner: r}
	code = a.execute([]string{"usdc", "demo", "--delay", "0s", "--seed", "hello"}, nil)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "✓ step 8 final balances")

	c, err := hashchain.Run([]byte("hello"), 1000)
	require.NoError(t, err)
	tail := aptos.BytesArg([]byte(c.TailCommitment()))
	found := false
	for _, l := range r.lines {
		if strings.Contains(l, "tinypay::deposit") && strings.Contains(l, tail) {
			found = true
		}
	}
	assert.True(t, found, "deposit must commit to the tail of the seed chain")
}

