package aptos

import (
	"context"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"tinypay.dev/paykit/bridge"
)

// AptosCoin is the native coin type.
const AptosCoin = "0x1::aptos_coin::AptosCoin"

// DefaultMintAmount is 10,000 TestUSDC at six decimals.
const DefaultMintAmount uint64 = 10_000_000_000

// U64Arg renders n as "u64:<n>".
func U64Arg(n uint64) string { return "u64:" + strconv.FormatUint(n, 10) }

// AddressArg renders addr as "address:<addr>".
func AddressArg(addr string) string { return "address:" + addr }

// BytesArg renders b as a vector<u8> argument.
func BytesArg(b []byte) string { return bridge.FormatMoveArg(bridge.ArgVectorU8, b) }

// ViewResult is the JSON envelope printed by "aptos move view".
type ViewResult struct {
	Result []jsoniter.RawMessage `json:"Result"`
}

// ParseViewResult decodes the envelope from out.
func ParseViewResult(out string) (ViewResult, error) {
	var r ViewResult
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(strings.TrimSpace(out), &r); err != nil {
		return ViewResult{}, errors.Wrap(err, "decode view result")
	}
	return r, nil
}

// InitializeTestUSDC creates the TestUSDC coin under the package account.
func (c *Client) InitializeTestUSDC(ctx context.Context) error {
	_, err := c.Run(ctx, Call{FunctionID: c.Function("test_usdc", "initialize_test_usdc")})
	return err
}

// AddCoinSupport registers coinType with the tinypay module.
func (c *Client) AddCoinSupport(ctx context.Context, coinType string) error {
	_, err := c.Run(ctx, Call{
		FunctionID: c.Function("tinypay", "add_coin_support"),
		TypeArgs:   []string{coinType},
	})
	return err
}

// MintToAdmin mints amount base units of TestUSDC to the admin account.
func (c *Client) MintToAdmin(ctx context.Context, amount uint64) error {
	_, err := c.Run(ctx, Call{
		FunctionID: c.Function("test_usdc", "mint_to_admin"),
		Args:       []string{U64Arg(amount)},
	})
	return err
}

// TestUSDCBalance returns the raw view output of the wallet balance of
// address. An empty address checks the profile account is usable and then
// queries the package account.
func (c *Client) TestUSDCBalance(ctx context.Context, address string) (string, error) {
	if address == "" {
		if _, err := c.AccountList(ctx); err != nil {
			return "", err
		}
		address = c.Package()
	}
	return c.View(ctx, Call{
		FunctionID: c.Function("test_usdc", "get_balance"),
		Args:       []string{AddressArg(address)},
	})
}

// IsCoinSupported reports whether tinypay accepts coinType.
func (c *Client) IsCoinSupported(ctx context.Context, coinType string) (bool, error) {
	out, err := c.View(ctx, Call{
		FunctionID: c.Function("tinypay", "is_coin_supported"),
		TypeArgs:   []string{coinType},
	})
	if err != nil {
		return false, err
	}
	r, err := ParseViewResult(out)
	if err != nil || len(r.Result) == 0 {
		return !strings.Contains(out, "false") && strings.Contains(out, "true"), nil
	}
	var ok bool
	if err := jsoniter.Unmarshal(r.Result[0], &ok); err != nil {
		return false, errors.Wrap(err, "decode is_coin_supported")
	}
	return ok, nil
}

// TinyPayBalance returns the raw view output of the tinypay balance of
// address in coinType.
func (c *Client) TinyPayBalance(ctx context.Context, address, coinType string) (string, error) {
	return c.View(ctx, Call{
		FunctionID: c.Function("tinypay", "get_balance"),
		Args:       []string{AddressArg(address)},
		TypeArgs:   []string{coinType},
	})
}

// Deposit moves amount into tinypay, committing to tail. tailArg is a
// rendered vector<u8> argument such as workflow.Result.TailArg.
func (c *Client) Deposit(ctx context.Context, coinType string, amount uint64, tailArg string) error {
	_, err := c.Run(ctx, Call{
		FunctionID: c.Function("tinypay", "deposit"),
		Args:       []string{U64Arg(amount), tailArg},
		TypeArgs:   []string{coinType},
	})
	return err
}

func (c *Client) WithdrawFunds(ctx context.Context, coinType string, amount uint64) error {
	_, err := c.Run(ctx, Call{
		FunctionID: c.Function("tinypay", "withdraw_funds"),
		Args:       []string{U64Arg(amount)},
		TypeArgs:   []string{coinType},
	})
	return err
}

// CoinInfo returns the raw view output of the TestUSDC coin info.
func (c *Client) CoinInfo(ctx context.Context) (string, error) {
	return c.View(ctx, Call{FunctionID: c.Function("test_usdc", "get_coin_info")})
}
