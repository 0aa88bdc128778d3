// Package workflow prepares the parameters of a tinypay payment call: it runs
// the hash chain, selects the one-time value and tail commitment, converts
// both into ASCII byte vectors and checks that they are chain-adjacent.
package workflow

import (
	"context"

	"github.com/ipfs/go-cid"

	"tinypay.dev/paykit/bridge"
	"tinypay.dev/paykit/cidutil"
	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/hashchain"
	"tinypay.dev/paykit/internal/logtrace"
	"tinypay.dev/paykit/model"
)

// DefaultIterations matches the contract deployment scripts.
const DefaultIterations = 1000

// previewSteps is how many leading and trailing steps are logged.
const previewSteps = 3

type Params struct {
	Seed       string
	Iterations uint64
	// Hasher defaults to SHA-256.
	Hasher digest.Hasher
	// ArgType defaults to u8.
	ArgType bridge.ArgType
}

type Result struct {
	Iterations uint64
	Algorithm  digest.Algorithm
	ArgType    bridge.ArgType
	Chain      *hashchain.Chain

	OptHex    string
	TailHex   string
	OptASCII  []byte
	TailASCII []byte
	TailCID   cid.Cid

	// VerificationHash is H(ascii(OptHex)); VerificationOK reports whether
	// it equals the tail.
	VerificationHash digest.Digest
	VerificationOK   bool
}

// Prepare runs the complete workflow. The context only carries logging
// metadata; the computation is not cancellable.
func Prepare(ctx context.Context, p Params) (*Result, error) {
	h := p.Hasher
	if h == nil {
		h = digest.SHA256()
	}
	argType := p.ArgType
	if argType == "" {
		argType = bridge.ArgU8
	}
	fields := logtrace.Fields{
		logtrace.FieldModule:     "workflow",
		logtrace.FieldIterations: p.Iterations,
		logtrace.FieldAlgorithm:  h.Algorithm().String(),
	}
	logtrace.Debug(ctx, "running hash chain", fields)

	chain, err := hashchain.Run([]byte(p.Seed), p.Iterations,
		hashchain.WithHasher(h),
		hashchain.WithObserver(stepLogger(ctx, p.Iterations)),
	)
	if err != nil {
		logtrace.Error(ctx, "hash chain failed", logtrace.WithFields(fields, logtrace.Fields{logtrace.FieldError: err}))
		return nil, err
	}

	r := &Result{
		Iterations: p.Iterations,
		Algorithm:  h.Algorithm(),
		ArgType:    argType,
		Chain:      chain,
		OptHex:     chain.OneTimeValue(),
		TailHex:    chain.TailCommitment(),
	}
	r.OptASCII = bridge.HexToASCIIBytes(r.OptHex)
	r.TailASCII = bridge.HexToASCIIBytes(r.TailHex)
	r.VerificationHash = hashchain.HashASCIIOfHex(h, r.OptHex)
	r.VerificationOK = hashchain.VerifyWith(h, r.OptHex, r.TailHex)

	r.TailCID, err = cidutil.DigestCID(h.Algorithm(), chain.Tail())
	if err != nil {
		return nil, err
	}

	done := logtrace.WithFields(fields, logtrace.Fields{
		logtrace.FieldHashHex: r.TailHex,
		logtrace.FieldCID:     r.TailCID.String(),
		"verification_ok":     r.VerificationOK,
	})
	if r.VerificationOK {
		logtrace.Info(ctx, "payment parameters prepared", done)
	} else {
		logtrace.Warn(ctx, "one-time value does not hash to tail", done)
	}
	return r, nil
}

func stepLogger(ctx context.Context, iterations uint64) hashchain.Observer {
	return func(i uint64, d digest.Digest) {
		if i < previewSteps || i+previewSteps >= iterations {
			logtrace.Debug(ctx, "chain step", logtrace.Fields{
				logtrace.FieldStep:    i + 1,
				logtrace.FieldHashHex: d.Hex(),
			})
		}
	}
}

// OptArg is the contract-call parameter for the one-time value.
func (r *Result) OptArg() string { return bridge.FormatMoveArg(r.ArgType, r.OptASCII) }

// TailArg is the contract-call parameter for the tail commitment.
func (r *Result) TailArg() string { return bridge.FormatMoveArg(r.ArgType, r.TailASCII) }

// Record projects r onto the boundary type used for JSON output and storage.
func (r *Result) Record() model.WorkflowRecord {
	return model.WorkflowRecord{
		Iterations:     r.Iterations,
		HashAlgorithm:  r.Algorithm.String(),
		OptHex:         r.OptHex,
		TailHex:        r.TailHex,
		OptASCIIBytes:  bridge.Ints(r.OptASCII),
		TailASCIIBytes: bridge.Ints(r.TailASCII),
		OptJSON:        bridge.FormatJSON(r.OptASCII),
		TailJSON:       bridge.FormatJSON(r.TailASCII),
		AptosOptArg:    r.OptArg(),
		AptosTailArg:   r.TailArg(),
		TailCID:        r.TailCID.String(),
		VerificationOK: r.VerificationOK,
	}
}

// Preview returns the 1-based step numbers and hex digests of the first and
// last three steps. gap is true when steps were skipped between them.
func (r *Result) Preview() (steps []uint64, hexes []string, gap bool) {
	n := uint64(r.Chain.Len())
	for i := uint64(0); i < n; i++ {
		if i < previewSteps || i+previewSteps >= n {
			steps = append(steps, i+1)
			hexes = append(hexes, r.Chain.At(int(i)).Hex())
		}
	}
	return steps, hexes, n > 2*previewSteps
}
