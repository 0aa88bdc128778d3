package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tinypay.dev/paykit/aptos"
	"tinypay.dev/paykit/config"
	"tinypay.dev/paykit/internal/logtrace"
	"tinypay.dev/paykit/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the state shared by every subcommand.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string

	cfg    *config.Config
	ctx    context.Context
	runner aptos.Runner // nil means aptos.ExecRunner
}

// usageError marks failures caused by how the command was invoked.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// errSilent reports failure without printing anything more.
var errSilent = errors.New("failed")

func run(args []string, out io.Writer, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut}
	return a.execute(args, nil)
}

// execute runs one command line and maps the outcome to an exit code:
// 0 success, 1 failure, 2 usage error. A nil in means os.Stdin.
func (a *app) execute(args []string, in io.Reader) int {
	errOut := a.errOut
	root := a.rootCmd()
	if len(args) == 0 {
		root.SetOut(errOut)
		_ = root.Usage()
		return 2
	}
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(errOut)
	if in != nil {
		root.SetIn(in)
	}

	err := root.Execute()
	logtrace.Sync()
	if err == nil {
		return 0
	}
	if errors.Is(err, errSilent) {
		return 1
	}
	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") ||
		strings.HasPrefix(err.Error(), "unknown flag") {
		fmt.Fprintf(errOut, "error: %v\n", err)
		fmt.Fprintln(errOut, "run 'tinypay --help' for usage")
		return 2
	}
	coded := model.FromError(err)
	if coded.RuleID != "" {
		fmt.Fprintf(errOut, "error [%s %s]: %s\n", coded.Code, coded.RuleID, coded.Message)
	} else {
		fmt.Fprintf(errOut, "error: %s\n", coded.Message)
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tinypay",
		Short: "Hash-chain payment commitments for the tinypay Move contract",
		Long: `tinypay prepares and checks the hash-chain values consumed by the tinypay
Move contract.

A payer commits to the tail of a SHA-256 chain and later reveals the value
one step before it. This tool computes chains, converts digests into the
ASCII byte vectors the contract expects, reproduces the contract's BCS
hashing and drives the aptos CLI for TestUSDC setup.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (YAML); TINYPAY_* env vars override it")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	root.AddCommand(
		a.workflowCmd(),
		a.hashCmd(),
		a.bridgeCmd(),
		a.verifyCmd(),
		a.recordCmd(),
		a.usdcCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	logtrace.Setup(cfg.Log.Level, a.errOut)
	a.ctx = logtrace.WithCorrelationID(cmd.Context(), "")
	logtrace.Debug(a.ctx, "command started", logtrace.Fields{
		logtrace.FieldModule:  "cli",
		logtrace.FieldCommand: cmd.CommandPath(),
	})
	return nil
}

// args wraps a positional-argument validator so violations exit with 2.
func args(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return usageError{err}
		}
		return nil
	}
}
