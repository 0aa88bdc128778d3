package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tinypay.dev/paykit/bcs"
	"tinypay.dev/paykit/model"
)

func (a *app) hashCmd() *cobra.Command {
	var (
		asJSON      bool
		asString    bool
		keepNewline bool
		debug       bool
		alg         string
		output      string
	)
	cmd := &cobra.Command{
		Use:   "hash [data]",
		Short: "Hash a value the way the Move contract does (BCS, then digest)",
		Long: `Encode data with the contract's BCS layout and print its digest.

Without --json or --string the input is read as JSON if it parses, then as
an integer, and otherwise as text. Floats are rejected. When data is
omitted it is read from stdin and one trailing newline is dropped.`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			if asJSON && asString {
				return usageError{fmt.Errorf("--json and --string are mutually exclusive")}
			}
			if output != "text" && output != "json" {
				return usageError{fmt.Errorf("--output must be text or json, got %q", output)}
			}
			h, err := a.hasher(alg)
			if err != nil {
				return usageError{err}
			}

			var input string
			if len(argv) == 1 {
				input = argv[0]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				input = string(b)
				if !keepNewline {
					input = strings.TrimSuffix(input, "\n")
				}
			}

			mode := bcs.InputAuto
			switch {
			case asJSON:
				mode = bcs.InputJSON
			case asString:
				mode = bcs.InputString
			}
			v, err := bcs.ParseInput(input, mode)
			if err != nil {
				return err
			}
			enc, err := bcs.Encode(v)
			if err != nil {
				return err
			}
			d := h.Sum(enc)

			if debug {
				fmt.Fprintf(a.errOut, "value: %v\n", v)
				fmt.Fprintf(a.errOut, "type: %s\n", bcs.TypeName(v))
				fmt.Fprintf(a.errOut, "bcs: %s\n", hex.EncodeToString(enc))
				fmt.Fprintf(a.errOut, "bcs length: %d\n", len(enc))
				fmt.Fprintf(a.errOut, "%s: %s\n", h.Algorithm(), d.Hex())
				fmt.Fprintln(a.errOut, "---")
			}

			if output == "json" {
				b, err := json.MarshalIndent(model.HashResult{
					Type:          bcs.TypeName(v),
					HashAlgorithm: string(h.Algorithm()),
					BCSHex:        hex.EncodeToString(enc),
					BCSLength:     len(enc),
					Hash:          d.Hex(),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(b))
				return nil
			}
			fmt.Fprintln(a.out, d.Hex())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Parse the input as JSON")
	cmd.Flags().BoolVar(&asString, "string", false, "Treat the input as a plain string")
	cmd.Flags().BoolVar(&keepNewline, "keep-newline", false, "Keep the trailing newline read from stdin")
	cmd.Flags().BoolVar(&debug, "debug", false, "Print the value, BCS bytes and digest to stderr")
	cmd.Flags().StringVar(&alg, "alg", "", "Hash algorithm: "+algorithmList())
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	return cmd
}
