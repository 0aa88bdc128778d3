package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tinypay.dev/paykit/aptos"
	"tinypay.dev/paykit/workflow"
)

func (a *app) usdcCmd() *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "usdc",
		Short: "Set up and exercise TestUSDC support through the aptos CLI",
	}
	cmd.PersistentFlags().StringVar(&profile, "profile", "", "Aptos CLI profile (default from config)")

	client := func() *aptos.Client {
		c := aptos.New(a.cfg.Aptos, a.runner)
		if profile != "" {
			c.Profile = profile
		}
		return c
	}
	single := func(use, short string, fn func(ctx context.Context, c *aptos.Client) (string, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				out, err := fn(a.ctx, client())
				if err != nil {
					return err
				}
				if s := strings.TrimSpace(out); s != "" {
					fmt.Fprintln(a.out, s)
				}
				return nil
			},
		}
	}

	var (
		amount  uint64
		address string
	)
	setup := &cobra.Command{
		Use:   "setup",
		Short: "Compile, publish, initialize TestUSDC, enable it, mint and check the balance",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client()
			results, err := aptos.RunSteps(a.ctx, c.SetupSteps(amount, address), 0)
			a.printSteps(results)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out)
			fmt.Fprintf(a.out, "TestUSDC environment ready (package %s)\n", c.Package())
			return nil
		},
	}
	setup.Flags().Uint64Var(&amount, "amount", aptos.DefaultMintAmount, "TestUSDC base units to mint")
	setup.Flags().StringVar(&address, "address", "", "Address whose balance is checked (default: package account)")

	mint := single("mint", "Mint TestUSDC to the admin account", func(ctx context.Context, c *aptos.Client) (string, error) {
		return "", c.MintToAdmin(ctx, amount)
	})
	mint.Flags().Uint64Var(&amount, "amount", aptos.DefaultMintAmount, "TestUSDC base units to mint")

	balance := single("balance", "Show the TestUSDC wallet balance", func(ctx context.Context, c *aptos.Client) (string, error) {
		return c.TestUSDCBalance(ctx, address)
	})
	balance.Flags().StringVar(&address, "address", "", "Account address (default: package account)")

	var (
		seed  string
		delay time.Duration
	)
	demo := &cobra.Command{
		Use:   "demo",
		Short: "Walk through deposit and withdrawal of TestUSDC",
		Long: `Run the TestUSDC demo: check support, set up the coin, mint, deposit
against the tail commitment of --seed, withdraw and show balances. Steps
that fail are reported and the demo continues.`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.cfg.Hasher()
			if err != nil {
				return err
			}
			r, err := workflow.Prepare(a.ctx, workflow.Params{
				Seed:       seed,
				Iterations: a.cfg.Chain.Iterations,
				Hasher:     h,
			})
			if err != nil {
				return err
			}
			c := client()
			results, err := aptos.RunSteps(a.ctx, c.DemoSteps(aptos.BytesArg(r.TailASCII)), delay)
			a.printSteps(results)
			return err
		},
	}
	demo.Flags().StringVar(&seed, "seed", "tinypay-demo", "Seed of the hash chain whose tail is deposited")
	demo.Flags().DurationVar(&delay, "delay", time.Second, "Pause between steps")

	cmd.AddCommand(
		setup,
		single("compile", "Compile the Move package", func(ctx context.Context, c *aptos.Client) (string, error) {
			return "", c.Compile(ctx)
		}),
		single("publish", "Publish the Move package", func(ctx context.Context, c *aptos.Client) (string, error) {
			addr, err := c.Publish(ctx)
			if err != nil || addr == "" {
				return "", err
			}
			return "Package address: " + addr, nil
		}),
		single("init", "Initialize TestUSDC", func(ctx context.Context, c *aptos.Client) (string, error) {
			return "", c.InitializeTestUSDC(ctx)
		}),
		single("add-support", "Enable TestUSDC in tinypay", func(ctx context.Context, c *aptos.Client) (string, error) {
			return "", c.AddCoinSupport(ctx, c.Coin())
		}),
		mint,
		balance,
		single("test", "Run the Move unit tests for USDC", func(ctx context.Context, c *aptos.Client) (string, error) {
			return c.Test(ctx, "usdc")
		}),
		demo,
	)
	return cmd
}

func (a *app) printSteps(results []aptos.StepResult) {
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(a.out, "✗ step %d %s: %v\n", i+1, r.Name, r.Err)
			continue
		}
		fmt.Fprintf(a.out, "✓ step %d %s\n", i+1, r.Name)
	}
}
