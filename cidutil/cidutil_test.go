package cidutil

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypay.dev/paykit/digest"
)

func TestCIDv1Raw_MatchesMultihashSum(t *testing.T) {
	data := []byte("hello, tinypay")
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	require.NoError(t, err)

	id, err := CIDv1Raw(digest.SHA256(), data)
	require.NoError(t, err)
	assert.Equal(t, cid.NewCidV1(cid.Raw, sum), id)
}

func TestDigestCID_RoundTrip(t *testing.T) {
	for _, alg := range digest.Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			h := digest.MustNew(alg)
			d := h.Sum([]byte("tail"))

			id, err := DigestCID(alg, d)
			require.NoError(t, err)
			assert.Equal(t, uint64(cid.Raw), id.Type())

			gotAlg, gotDigest, err := DigestOf(id)
			require.NoError(t, err)
			assert.Equal(t, alg, gotAlg)
			assert.Equal(t, d, gotDigest)

			viaData, err := CIDv1Raw(h, []byte("tail"))
			require.NoError(t, err)
			assert.Equal(t, id, viaData)
		})
	}
}

func TestDigestCID_UnknownAlgorithm(t *testing.T) {
	_, err := DigestCID(digest.Algorithm("md5"), digest.Zero)
	assert.Error(t, err)
}

func TestDigestOf_UnsupportedCode(t *testing.T) {
	sum, err := multihash.Sum([]byte("x"), multihash.SHA2_512, -1)
	require.NoError(t, err)
	_, _, err = DigestOf(cid.NewCidV1(cid.Raw, sum))
	assert.Error(t, err)
}
