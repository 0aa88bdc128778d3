package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tinypay.dev/paykit/bridge"
)

func (a *app) bridgeCmd() *cobra.Command {
	var (
		format  string
		reverse bool
		strict  bool
		argType string
	)
	cmd := &cobra.Command{
		Use:   "bridge <hex | bytes>",
		Short: "Convert hex digest text into the ASCII byte vector the contract stores",
		Long: `Convert hex text into one byte per character (its ASCII code), which is
how the contract receives digests. This is not hex decoding: "ab" becomes
[97, 98].

With --reverse the argument is a comma separated byte list and is printed
back as hex and as text.`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			if reverse {
				b, err := bridge.ParseDecimalList(argv[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "ASCII bytes: %s\n", bridge.FormatList(b))
				fmt.Fprintf(a.out, "Hex string: %s\n", bridge.ASCIIBytesToHex(b))
				fmt.Fprintf(a.out, "String: %s\n", bridge.ASCIIBytesToString(b))
				return nil
			}

			if strict {
				if err := bridge.ValidateHex(argv[0]); err != nil {
					return err
				}
			}
			b := bridge.HexToASCIIBytes(argv[0])
			switch format {
			case "list":
				fmt.Fprintln(a.out, bridge.FormatList(b))
			case "aptos":
				if argType == "" {
					argType = a.cfg.Chain.ArgType
				}
				typ, err := bridge.ParseArgType(argType)
				if err != nil {
					return usageError{err}
				}
				fmt.Fprintln(a.out, bridge.FormatMoveArg(typ, b))
			case "string":
				fmt.Fprintln(a.out, bridge.ASCIIBytesToString(b))
			case "json":
				fmt.Fprintln(a.out, bridge.FormatJSON(b))
			default:
				return usageError{fmt.Errorf("--format must be one of list, aptos, string, json; got %q", format)}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "list", "Output format: list, aptos, string, json")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Treat the input as comma separated bytes and convert back")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject input containing non-hex characters")
	cmd.Flags().StringVar(&argType, "arg-type", "", "Argument type for --format aptos: u8 or vector<u8>")
	return cmd
}
