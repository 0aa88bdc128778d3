// Package testkit holds the conformance suite every storage.CAS backend must
// pass.
package testkit

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypay.dev/paykit/cidutil"
	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test, keyed with
// SHA-256. The returned CAS MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte("tail commitment record")

		id, err := cas.Put(want)
		require.NoError(t, err)
		wantID, err := cidutil.CIDv1Raw(digest.SHA256(), want)
		require.NoError(t, err)
		assert.Equal(t, wantID, id)

		got, err := cas.Get(id)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("same bytes")

		id1, err := cas.Put(b)
		require.NoError(t, err)
		id2, err := cas.Put(b)
		require.NoError(t, err)
		assert.Equal(t, id1, id2)
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("missing")
		id, err := cidutil.CIDv1Raw(digest.SHA256(), b)
		require.NoError(t, err)

		assert.False(t, cas.Has(id))
		_, err = cas.Get(id)
		assert.True(t, storage.IsNotFound(err), "got %v", err)

		_, err = cas.Put(b)
		require.NoError(t, err)
		assert.True(t, cas.Has(id))
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		assert.False(t, cas.Has(undef))
		_, err := cas.Get(undef)
		assert.Error(t, err)
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		cas := newCAS(t)
		id, err := cas.Put([]byte("immutable"))
		require.NoError(t, err)
		got, err := cas.Get(id)
		require.NoError(t, err)
		got[0] = 'X'
		again, err := cas.Get(id)
		require.NoError(t, err)
		assert.Equal(t, []byte("immutable"), again)
	})
}
