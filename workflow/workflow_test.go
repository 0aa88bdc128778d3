package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypay.dev/paykit/bridge"
	"tinypay.dev/paykit/cidutil"
	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/fault"
	"tinypay.dev/paykit/hashchain"
)

func TestPrepare_HelloThreeIterations(t *testing.T) {
	r, err := Prepare(context.Background(), Params{Seed: "hello", Iterations: 3})
	require.NoError(t, err)

	c, err := hashchain.Run([]byte("hello"), 3)
	require.NoError(t, err)
	assert.Equal(t, c.At(1).Hex(), r.OptHex)
	assert.Equal(t, c.At(2).Hex(), r.TailHex)
	assert.True(t, r.VerificationOK)
	assert.Equal(t, c.At(2), r.VerificationHash)

	require.Len(t, r.OptASCII, 64)
	assert.Equal(t, []byte(r.OptHex), r.OptASCII)
	assert.Equal(t, digest.SHA2_256, r.Algorithm)
	assert.Equal(t, bridge.ArgU8, r.ArgType)

	wantCID, err := cidutil.DigestCID(digest.SHA2_256, c.Tail())
	require.NoError(t, err)
	assert.Equal(t, wantCID, r.TailCID)
}

func TestPrepare_SingleIterationUsesSeed(t *testing.T) {
	r, err := Prepare(context.Background(), Params{Seed: "hello", Iterations: 1})
	require.NoError(t, err)
	assert.Equal(t, "hello", r.OptHex)
	assert.Equal(t, digest.Sum([]byte("hello")).Hex(), r.TailHex)
	assert.Equal(t, []byte("hello"), r.OptASCII)
	assert.True(t, r.VerificationOK)
}

func TestPrepare_ZeroIterations(t *testing.T) {
	_, err := Prepare(context.Background(), Params{Seed: "hello"})
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindInvalidArgument))
}

func TestPrepare_VectorArgAndAlgorithm(t *testing.T) {
	h := digest.MustNew(digest.Keccak256)
	r, err := Prepare(context.Background(), Params{Seed: "s", Iterations: 4, Hasher: h, ArgType: bridge.ArgVectorU8})
	require.NoError(t, err)
	assert.True(t, r.VerificationOK)
	assert.Equal(t, digest.Keccak256, r.Algorithm)
	assert.Equal(t, bridge.FormatMoveArg(bridge.ArgVectorU8, r.TailASCII), r.TailArg())
	assert.Contains(t, r.OptArg(), "vector<u8>:[")
}

func TestResult_Record(t *testing.T) {
	r, err := Prepare(context.Background(), Params{Seed: "hello", Iterations: 3})
	require.NoError(t, err)
	rec := r.Record()

	assert.Equal(t, uint64(3), rec.Iterations)
	assert.Equal(t, "sha2-256", rec.HashAlgorithm)
	assert.Equal(t, r.OptHex, rec.OptHex)
	assert.Equal(t, r.TailHex, rec.TailHex)
	assert.Len(t, rec.OptASCIIBytes, 64)
	assert.Equal(t, bridge.FormatJSON(r.OptASCII), rec.OptJSON)
	assert.Equal(t, bridge.FormatMoveArg(bridge.ArgU8, r.OptASCII), rec.AptosOptArg)
	assert.Equal(t, "[", rec.OptJSON[:1])
	assert.Contains(t, rec.OptJSON, ", ")
	assert.Equal(t, r.TailCID.String(), rec.TailCID)
	assert.True(t, rec.VerificationOK)
}

func TestResult_Preview(t *testing.T) {
	r, err := Prepare(context.Background(), Params{Seed: "p", Iterations: 10})
	require.NoError(t, err)
	steps, hexes, gap := r.Preview()
	assert.Equal(t, []uint64{1, 2, 3, 8, 9, 10}, steps)
	assert.Len(t, hexes, 6)
	assert.Equal(t, r.TailHex, hexes[5])
	assert.True(t, gap)

	r, err = Prepare(context.Background(), Params{Seed: "p", Iterations: 4})
	require.NoError(t, err)
	steps, _, gap = r.Preview()
	assert.Equal(t, []uint64{1, 2, 3, 4}, steps)
	assert.False(t, gap)
}
