package localfs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypay.dev/paykit/cidutil"
	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/storage"
	"tinypay.dev/paykit/storage/testkit"
)

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		cas, err := New(t.TempDir())
		require.NoError(t, err)
		return cas
	})
}

func TestLocalFS_RejectMutationByOverwrite(t *testing.T) {
	cas, err := New(t.TempDir())
	require.NoError(t, err)

	orig := []byte("original")
	id, err := cas.Put(orig)
	require.NoError(t, err)

	// Corrupt the stored object out-of-band.
	path := cas.pathFor(id)
	require.NoError(t, os.Chmod(path, 0o644))
	require.NoError(t, os.WriteFile(path, []byte("corrupted"), 0o644))

	_, err = cas.Get(id)
	assert.ErrorIs(t, err, storage.ErrCIDMismatch)

	// Put must not repair or overwrite the corrupted object.
	_, err = cas.Put(orig)
	assert.ErrorIs(t, err, storage.ErrImmutable)
}

func TestLocalFS_AlternativeHasher(t *testing.T) {
	h := digest.MustNew(digest.Blake2b256)
	cas, err := NewWithHasher(t.TempDir(), h)
	require.NoError(t, err)

	id, err := cas.Put([]byte("blake"))
	require.NoError(t, err)
	want, err := cidutil.CIDv1Raw(h, []byte("blake"))
	require.NoError(t, err)
	assert.Equal(t, want, id)

	got, err := cas.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("blake"), got)
}

func TestLocalFS_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	cas, err := New(dir)
	require.NoError(t, err)
	id, err := cas.Put([]byte("x"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir + "/" + id.String()[:2])
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id.String(), entries[0].Name())
}

func TestNew_RequiresRoot(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
	_, err = NewWithHasher(t.TempDir(), nil)
	assert.Error(t, err)
}
