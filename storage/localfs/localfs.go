// Package localfs is a directory-backed CAS for workflow records.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"tinypay.dev/paykit/cidutil"
	"tinypay.dev/paykit/digest"
	"tinypay.dev/paykit/storage"
)

// CAS stores objects immutably under root/<first two CID chars>/<CID>.
//
// It is offline and deterministic: it never uses the network and never
// depends on wall-clock time.
type CAS struct {
	root   string
	hasher digest.Hasher
}

var _ storage.CAS = (*CAS)(nil)

// New constructs a filesystem CAS rooted at root, keyed with SHA-256.
// The directory is created if needed.
func New(root string) (*CAS, error) {
	return NewWithHasher(root, digest.SHA256())
}

// NewWithHasher is New with an explicit hash for CID derivation.
func NewWithHasher(root string, h digest.Hasher) (*CAS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if h == nil {
		return nil, errors.New("localfs: hasher is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &CAS{root: root, hasher: h}, nil
}

// Root returns the store directory.
func (c *CAS) Root() string { return c.root }

func (c *CAS) Put(b []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1Raw(c.hasher, b)
	if err != nil {
		return cid.Undef, err
	}

	path := c.pathFor(id)
	if existing, err := os.ReadFile(path); err == nil {
		if !bytes.Equal(existing, b) {
			return cid.Undef, storage.ErrImmutable
		}
		return id, nil
	} else if !os.IsNotExist(err) {
		return cid.Undef, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cid.Undef, err
	}
	// Write to a temp file and rename so readers never see partial objects.
	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return cid.Undef, err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		cleanup()
		return cid.Undef, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return cid.Undef, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return cid.Undef, err
	}
	if err := os.Chmod(tmpName, 0o444); err != nil {
		cleanup()
		return cid.Undef, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return cid.Undef, err
	}
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := os.ReadFile(c.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	alg, _, err := cidutil.DigestOf(id)
	if err != nil {
		return nil, storage.ErrInvalidCID
	}
	h, err := digest.New(alg)
	if err != nil {
		return nil, storage.ErrInvalidCID
	}
	got, err := cidutil.CIDv1Raw(h, b)
	if err != nil {
		return nil, err
	}
	if !got.Equals(id) {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(c.pathFor(id))
	return err == nil
}

func (c *CAS) pathFor(id cid.Cid) string {
	s := id.String()
	if len(s) < 2 {
		return filepath.Join(c.root, s)
	}
	return filepath.Join(c.root, s[:2], s)
}
