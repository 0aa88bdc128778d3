package storage

import (
	"bytes"
	"sync"

	"github.com/ipfs/go-cid"

	"tinypay.dev/paykit/cidutil"
	"tinypay.dev/paykit/digest"
)

// Memory is an in-process CAS. It is safe for concurrent use.
type Memory struct {
	hasher digest.Hasher

	mu      sync.RWMutex
	objects map[cid.Cid][]byte
}

var _ CAS = (*Memory)(nil)

// NewMemory returns an empty store keyed with h (SHA-256 when nil).
func NewMemory(h digest.Hasher) *Memory {
	if h == nil {
		h = digest.SHA256()
	}
	return &Memory{hasher: h, objects: make(map[cid.Cid][]byte)}
}

func (m *Memory) Put(b []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1Raw(m.hasher, b)
	if err != nil {
		return cid.Undef, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.objects[id]; ok {
		if !bytes.Equal(existing, b) {
			return cid.Undef, ErrImmutable
		}
		return id, nil
	}
	m.objects[id] = append([]byte(nil), b...)
	return id, nil
}

func (m *Memory) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[id]
	return ok
}
