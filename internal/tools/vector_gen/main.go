// Command vector_gen regenerates testdata/conformance/vectors.json, the
// golden hash chain and BCS vectors checked by the package tests.
//
//	go run ./internal/tools/vector_gen -o testdata/conformance/vectors.json
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"tinypay.dev/paykit/bcs"
	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/hashchain"
)

type chainVector struct {
	Seed         string   `json:"seed"`
	Iterations   uint64   `json:"iterations"`
	Digests      []string `json:"digests"`
	OneTimeValue string   `json:"one_time_value"`
	Tail         string   `json:"tail"`
}

type bcsVector struct {
	Name   string `json:"name"`
	JSON   string `json:"json"`
	BCSHex string `json:"bcs_hex"`
	SHA256 string `json:"sha256"`
}

type vectors struct {
	HashChain []chainVector `json:"hash_chain"`
	BCS       []bcsVector   `json:"bcs"`
}

var chains = []struct {
	seed string
	n    uint64
}{
	{"hello", 1},
	{"hello", 3},
	{"tinypay", 10},
	{"", 2},
}

var bcsInputs = [][2]string{
	{"bool_true", "true"},
	{"bool_false", "false"},
	{"u64_zero", "0"},
	{"u64_max", "18446744073709551615"},
	{"string_empty", `""`},
	{"string_hello", `"hello"`},
	{"seq_u64", "[1,2,3]"},
	{"seq_empty", "[]"},
	{"nested", `[[1],["a"]]`},
	{"map_sorted", `{"b":2,"a":1}`},
	{"map_nested", `{"amount":1000,"payer":"alice","tags":["x","y"]}`},
}

func build() (vectors, error) {
	var v vectors
	for _, c := range chains {
		ch, err := hashchain.Run([]byte(c.seed), c.n)
		if err != nil {
			return v, err
		}
		v.HashChain = append(v.HashChain, chainVector{
			Seed:         c.seed,
			Iterations:   c.n,
			Digests:      ch.Hexes(),
			OneTimeValue: ch.OneTimeValue(),
			Tail:         ch.TailCommitment(),
		})
	}
	for _, in := range bcsInputs {
		val, err := bcs.FromJSON([]byte(in[1]))
		if err != nil {
			return v, fmt.Errorf("%s: %w", in[0], err)
		}
		enc, err := bcs.Encode(val)
		if err != nil {
			return v, fmt.Errorf("%s: %w", in[0], err)
		}
		v.BCS = append(v.BCS, bcsVector{
			Name:   in[0],
			JSON:   in[1],
			BCSHex: hex.EncodeToString(enc),
			SHA256: digest.Sum(enc).Hex(),
		})
	}
	return v, nil
}

func main() {
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	v, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build vectors: %v\n", err)
		os.Exit(1)
	}
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(1)
	}
	b = append(b, '\n')

	if *out == "" {
		_, _ = os.Stdout.Write(b)
		return
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
}
