package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tinypay.dev/paykit/hashchain"
	"tinypay.dev/paykit/model"
)

func (a *app) verifyCmd() *cobra.Command {
	var (
		alg    string
		output string
	)
	cmd := &cobra.Command{
		Use:   "verify <one-time-value> <tail>",
		Short: "Check that a one-time value hashes to the tail commitment",
		Args:  args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			h, err := a.hasher(alg)
			if err != nil {
				return usageError{err}
			}
			res := model.VerifyResult{
				OneTimeValue: argv[0],
				Tail:         argv[1],
				Computed:     hashchain.HashASCIIOfHex(h, argv[0]).Hex(),
				OK:           hashchain.VerifyWith(h, argv[0], argv[1]),
			}

			switch output {
			case "json":
				b, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(b))
			case "text":
				fmt.Fprintf(a.out, "Computed: %s\n", res.Computed)
				fmt.Fprintf(a.out, "Expected: %s\n", res.Tail)
				fmt.Fprintf(a.out, "Verification: %s\n", passFail(res.OK))
			default:
				return usageError{fmt.Errorf("--output must be text or json, got %q", output)}
			}
			if !res.OK {
				return errSilent
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&alg, "alg", "", "Hash algorithm: "+algorithmList())
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	return cmd
}
