// Package aptos drives the aptos CLI to compile, publish and call the
// tinypay Move package.
package aptos

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"tinypay.dev/paykit/config"
	"tinypay.dev/paykit/fault"
	"tinypay.dev/paykit/internal/logtrace"
)

// DefaultPackage is the named address used until a publish reports the
// deployed account.
const DefaultPackage = "@tinypay"

// Call is one Move function invocation.
type Call struct {
	FunctionID string
	Args       []string
	TypeArgs   []string
}

// Client wraps the aptos binary for one profile.
type Client struct {
	Bin            string
	Profile        string
	PackageAddress string
	CoinType       string
	Runner         Runner

	// NewBackOff builds the retry policy for View. Nil means exponential
	// with a 30s ceiling.
	NewBackOff func() backoff.BackOff
}

// New builds a client from cfg. A nil runner means ExecRunner.
func New(cfg config.AptosConfig, r Runner) *Client {
	if r == nil {
		r = ExecRunner{}
	}
	return &Client{
		Bin:            cfg.Binary,
		Profile:        cfg.Profile,
		PackageAddress: cfg.PackageAddress,
		CoinType:       cfg.CoinType,
		Runner:         r,
	}
}

// Package returns the address prefix for function IDs.
func (c *Client) Package() string {
	if c.PackageAddress == "" {
		return DefaultPackage
	}
	return c.PackageAddress
}

// Coin returns the configured coin type, defaulting to TestUSDC.
func (c *Client) Coin() string {
	if c.CoinType != "" {
		return c.CoinType
	}
	return c.Function("test_usdc", "TestUSDC")
}

// Function returns "<package>::module::name".
func (c *Client) Function(module, name string) string {
	return c.Package() + "::" + module + "::" + name
}

func (c *Client) bin() string {
	if c.Bin == "" {
		return "aptos"
	}
	return c.Bin
}

func (c *Client) profileArgs() []string {
	if c.Profile == "" {
		return nil
	}
	return []string{"--profile", c.Profile}
}

func (c *Client) exec(ctx context.Context, args ...string) (string, error) {
	fields := logtrace.Fields{
		logtrace.FieldModule:  "aptos",
		logtrace.FieldCommand: c.bin() + " " + strings.Join(args, " "),
	}
	logtrace.Debug(ctx, "running aptos command", fields)

	out, err := c.Runner.Run(ctx, c.bin(), args...)
	if err != nil {
		logtrace.Error(ctx, "aptos command failed", logtrace.WithFields(fields, logtrace.Fields{logtrace.FieldError: err}))
		return out, fault.Wrap(fault.KindExternal, "APTOS-EXEC-001", "aptos "+args[0]+" failed", err)
	}
	logtrace.Debug(ctx, "aptos command succeeded", logtrace.WithFields(fields, logtrace.Fields{"output": strings.TrimSpace(out)}))
	return out, nil
}

// Compile runs "aptos move compile".
func (c *Client) Compile(ctx context.Context) error {
	_, err := c.exec(ctx, append([]string{"move", "compile"}, c.profileArgs()...)...)
	return errors.Wrap(err, "compile package")
}

// Publish runs "aptos move publish" and, when the output names the deployed
// package, switches the client to that address.
func (c *Client) Publish(ctx context.Context) (string, error) {
	args := append([]string{"move", "publish"}, c.profileArgs()...)
	out, err := c.exec(ctx, append(args, "--assume-yes")...)
	if err != nil {
		return "", errors.Wrap(err, "publish package")
	}
	if addr, ok := ParsePublishedAddress(out); ok {
		c.PackageAddress = addr
		logtrace.Info(ctx, "package published", logtrace.Fields{
			logtrace.FieldModule: "aptos",
			"package_address":    addr,
		})
		return addr, nil
	}
	return "", nil
}

// ParsePublishedAddress extracts the package address from publish output.
// The output must report a successful deployment; the address is the first
// 0x-prefixed token longer than ten characters on the first line mentioning
// a package.
func ParsePublishedAddress(out string) (string, bool) {
	if !strings.Contains(out, "Code was successfully deployed") {
		return "", false
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(strings.ToLower(line), "package") || !strings.Contains(line, "0x") {
			continue
		}
		for _, tok := range strings.Fields(line) {
			if strings.HasPrefix(tok, "0x") && len(tok) > 10 {
				return tok, true
			}
		}
		return "", false
	}
	return "", false
}

// Run submits an entry function transaction.
func (c *Client) Run(ctx context.Context, call Call) (string, error) {
	args := []string{"move", "run", "--function-id", call.FunctionID}
	args = append(args, c.profileArgs()...)
	args = append(args, "--assume-yes")
	args = appendCallArgs(args, call)

	out, err := c.exec(ctx, args...)
	if err != nil {
		return "", errors.Wrapf(err, "run %s", call.FunctionID)
	}
	return out, nil
}

// View calls a view function. Failures are retried with exponential backoff
// until the policy gives up or ctx is done. A binary that cannot be started
// fails immediately.
func (c *Client) View(ctx context.Context, call Call) (string, error) {
	args := appendCallArgs([]string{"move", "view", "--function-id", call.FunctionID}, call)

	var out string
	op := func() error {
		var err error
		out, err = c.exec(ctx, args...)
		if err != nil && StartFailed(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logtrace.Warn(ctx, "view failed, retrying", logtrace.Fields{
			logtrace.FieldModule:     "aptos",
			logtrace.FieldFunctionID: call.FunctionID,
			logtrace.FieldError:      err,
			"wait":                   wait.String(),
		})
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(c.newBackOff(), ctx), notify); err != nil {
		return "", errors.Wrapf(err, "view %s", call.FunctionID)
	}
	return out, nil
}

func (c *Client) newBackOff() backoff.BackOff {
	if c.NewBackOff != nil {
		return c.NewBackOff()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 30 * time.Second
	return b
}

// Test runs the Move unit tests matching filter.
func (c *Client) Test(ctx context.Context, filter string) (string, error) {
	args := []string{"move", "test"}
	if filter != "" {
		args = append(args, "--filter", filter)
	}
	out, err := c.exec(ctx, append(args, c.profileArgs()...)...)
	return out, errors.Wrap(err, "move test")
}

// AccountList runs "aptos account list" for the profile.
func (c *Client) AccountList(ctx context.Context) (string, error) {
	out, err := c.exec(ctx, append([]string{"account", "list"}, c.profileArgs()...)...)
	return out, errors.Wrap(err, "account list")
}

func appendCallArgs(args []string, call Call) []string {
	if len(call.Args) > 0 {
		args = append(append(args, "--args"), call.Args...)
	}
	if len(call.TypeArgs) > 0 {
		args = append(append(args, "--type-args"), call.TypeArgs...)
	}
	return args
}
