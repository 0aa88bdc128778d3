package aptos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"tinypay.dev/paykit/internal/logtrace"
)

// Step is one named stage of a scripted sequence.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
	// BestEffort steps record their failure and let the sequence continue.
	BestEffort bool
}

type StepResult struct {
	Name string
	Err  error
}

// RunSteps executes steps in order, pausing delay between them. It stops at
// the first failing step that is not BestEffort and returns its error.
func RunSteps(ctx context.Context, steps []Step, delay time.Duration) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))
	for i, s := range steps {
		fields := logtrace.Fields{
			logtrace.FieldModule: "aptos",
			logtrace.FieldStep:   s.Name,
			"index":              i + 1,
			"total":              len(steps),
		}
		logtrace.Info(ctx, "step started", fields)

		err := s.Run(ctx)
		results = append(results, StepResult{Name: s.Name, Err: err})
		if err != nil {
			logtrace.Error(ctx, "step failed", logtrace.WithFields(fields, logtrace.Fields{logtrace.FieldError: err}))
			if !s.BestEffort {
				return results, errors.Wrapf(err, "step %q", s.Name)
			}
		} else {
			logtrace.Info(ctx, "step completed", fields)
		}

		if delay > 0 && i < len(steps)-1 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return results, nil
}

// SetupSteps compiles and publishes the package, initializes TestUSDC,
// enables it in tinypay, mints amount to the admin and checks the balance
// of address (the package account when empty).
func (c *Client) SetupSteps(amount uint64, address string) []Step {
	return []Step{
		{Name: "compile", Run: c.Compile},
		{Name: "publish", Run: func(ctx context.Context) error {
			_, err := c.Publish(ctx)
			return err
		}},
		{Name: "initialize TestUSDC", Run: c.InitializeTestUSDC},
		{Name: "add coin support", Run: func(ctx context.Context) error {
			return c.AddCoinSupport(ctx, c.Coin())
		}},
		{Name: "mint to admin", Run: func(ctx context.Context) error {
			return c.MintToAdmin(ctx, amount)
		}},
		{Name: "check balance", Run: func(ctx context.Context) error {
			_, err := c.TestUSDCBalance(ctx, address)
			return err
		}},
	}
}

// Demo amounts in TestUSDC base units.
const (
	DemoDepositAmount  uint64 = 1_000_000_000
	DemoWithdrawAmount uint64 = 500_000_000
)

// ErrCoinNotSupported is reported by the first demo step when the coin has
// not been added to tinypay yet.
var ErrCoinNotSupported = errors.New("coin not supported by tinypay")

// DemoSteps walks through enabling TestUSDC, depositing against tailArg,
// withdrawing and checking balances. Every step is best effort.
func (c *Client) DemoSteps(tailArg string) []Step {
	balances := func(ctx context.Context) error {
		if _, err := c.TestUSDCBalance(ctx, c.Package()); err != nil {
			return err
		}
		_, err := c.TinyPayBalance(ctx, c.Package(), c.Coin())
		return err
	}
	steps := []Step{
		{Name: "check initial state", Run: func(ctx context.Context) error {
			if _, err := c.IsCoinSupported(ctx, AptosCoin); err != nil {
				return err
			}
			ok, err := c.IsCoinSupported(ctx, c.Coin())
			if err != nil {
				return err
			}
			if !ok {
				return ErrCoinNotSupported
			}
			return nil
		}},
		{Name: "set up TestUSDC", Run: func(ctx context.Context) error {
			initErr := c.InitializeTestUSDC(ctx)
			supportErr := c.AddCoinSupport(ctx, c.Coin())
			if initErr != nil {
				return initErr
			}
			return supportErr
		}},
		{Name: "mint TestUSDC", Run: func(ctx context.Context) error {
			return c.MintToAdmin(ctx, DefaultMintAmount)
		}},
		{Name: "check balances", Run: func(ctx context.Context) error {
			if _, err := c.AccountList(ctx); err != nil {
				return err
			}
			return balances(ctx)
		}},
		{Name: "deposit", Run: func(ctx context.Context) error {
			return c.Deposit(ctx, c.Coin(), DemoDepositAmount, tailArg)
		}},
		{Name: "balances after deposit", Run: balances},
		{Name: "withdraw", Run: func(ctx context.Context) error {
			return c.WithdrawFunds(ctx, c.Coin(), DemoWithdrawAmount)
		}},
		{Name: "final balances", Run: func(ctx context.Context) error {
			if err := balances(ctx); err != nil {
				return err
			}
			_, err := c.CoinInfo(ctx)
			return err
		}},
	}
	for i := range steps {
		steps[i].BestEffort = true
	}
	return steps
}
