package main

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"tinypay.dev/paykit/bridge"
	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/storage"
	"tinypay.dev/paykit/storage/localfs"
	"tinypay.dev/paykit/workflow"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (a *app) workflowCmd() *cobra.Command {
	var (
		iterations uint64
		jsonOutput bool
		storeDir   string
		alg        string
		argType    string
	)
	cmd := &cobra.Command{
		Use:   "workflow <seed>",
		Short: "Compute the one-time value and tail commitment for a seed",
		Long: `Run the hash chain over <seed> and print the contract parameters.

The one-time value is the penultimate digest (the seed itself for a single
iteration) and the tail is the last digest. Both are printed as hex, as
ASCII byte lists and as aptos CLI arguments, followed by a check that the
one-time value hashes to the tail.`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			if !cmd.Flags().Changed("iterations") {
				iterations = a.cfg.Chain.Iterations
			}
			h, err := a.hasher(alg)
			if err != nil {
				return usageError{err}
			}
			if argType == "" {
				argType = a.cfg.Chain.ArgType
			}
			typ, err := bridge.ParseArgType(argType)
			if err != nil {
				return usageError{err}
			}

			r, err := workflow.Prepare(a.ctx, workflow.Params{
				Seed:       argv[0],
				Iterations: iterations,
				Hasher:     h,
				ArgType:    typ,
			})
			if err != nil {
				return err
			}
			a.printWorkflow(argv[0], r)

			rec := r.Record()
			if storeDir == "" {
				storeDir = a.cfg.Store.Dir
			}
			if storeDir != "" {
				cas, err := localfs.NewWithHasher(storeDir, h)
				if err != nil {
					return err
				}
				id, err := storage.RecordStore{CAS: cas}.Save(rec)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out)
				fmt.Fprintf(a.out, "Record CID: %s\n", id)
			}

			if jsonOutput {
				b, err := json.MarshalIndent(rec, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out)
				fmt.Fprintln(a.out, "=== JSON Output ===")
				fmt.Fprintln(a.out, string(b))
			}
			return nil
		},
	}
	cmd.Flags().Uint64VarP(&iterations, "iterations", "n", workflow.DefaultIterations, "Number of hash iterations (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json-output", false, "Also print the results as JSON")
	cmd.Flags().StringVar(&storeDir, "store", "", "Save the record in this content-addressed store directory")
	cmd.Flags().StringVar(&alg, "alg", "", "Hash algorithm: "+algorithmList())
	cmd.Flags().StringVar(&argType, "arg-type", "", "Aptos argument type: u8 or vector<u8>")
	return cmd
}

func (a *app) printWorkflow(seed string, r *workflow.Result) {
	w := a.out
	fmt.Fprintln(w, "=== TinyPay Payment Workflow ===")
	fmt.Fprintf(w, "Initial data: %s\n", seed)
	fmt.Fprintf(w, "Iterations: %d\n", r.Iterations)
	if r.Algorithm != digest.Default {
		fmt.Fprintf(w, "Hash algorithm: %s\n", r.Algorithm)
	}
	fmt.Fprintln(w)

	steps, hexes, _ := r.Preview()
	var prev uint64
	for i, step := range steps {
		if step != prev+1 {
			fmt.Fprintln(w, "...")
		}
		fmt.Fprintf(w, "Iteration %d: %s\n", step, hexes[i])
		prev = step
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Results ===")
	fmt.Fprintf(w, "opt (hex): %s\n", r.OptHex)
	fmt.Fprintf(w, "tail (hex): %s\n", r.TailHex)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "opt (ASCII bytes): %s\n", bridge.FormatList(r.OptASCII))
	fmt.Fprintf(w, "tail (ASCII bytes): %s\n", bridge.FormatList(r.TailASCII))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Aptos CLI Format ===")
	fmt.Fprintf(w, "opt parameter: %s\n", r.OptArg())
	fmt.Fprintf(w, "tail parameter: %s\n", r.TailArg())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Verification ===")
	fmt.Fprintf(w, "opt_hex as ASCII: %s\n", r.OptASCII)
	fmt.Fprintf(w, "%s(opt_hex as ASCII): %s\n", strings.ToUpper(string(r.Algorithm)), r.VerificationHash.Hex())
	fmt.Fprintf(w, "Expected (tail_hex): %s\n", r.TailHex)
	fmt.Fprintf(w, "Verification: %s\n", passFail(r.VerificationOK))
	fmt.Fprintf(w, "Tail CID: %s\n", r.TailCID)
}

func passFail(ok bool) string {
	if ok {
		return "✓ PASS"
	}
	return "✗ FAIL"
}

// hasher resolves the --alg flag, falling back to the configured algorithm.
func (a *app) hasher(name string) (digest.Hasher, error) {
	if name == "" {
		return a.cfg.Hasher()
	}
	alg, err := digest.ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}
	return digest.New(alg)
}

func algorithmList() string {
	algs := digest.Algorithms()
	names := make([]string, len(algs))
	for i, alg := range algs {
		names[i] = string(alg)
	}
	return strings.Join(names, ", ")
}
