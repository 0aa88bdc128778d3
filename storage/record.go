package storage

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/ipfs/go-cid"

	"tinypay.dev/paykit/model"
)

var (
	recordEnc cbor.EncMode
	recordDec cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding sorts map keys so identical records always
	// hash to the same CID.
	recordEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	recordDec, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// EncodeRecord returns the deterministic CBOR bytes of rec.
func EncodeRecord(rec model.WorkflowRecord) ([]byte, error) {
	return recordEnc.Marshal(rec)
}

// DecodeRecord parses bytes produced by EncodeRecord.
func DecodeRecord(b []byte) (model.WorkflowRecord, error) {
	var rec model.WorkflowRecord
	if err := recordDec.Unmarshal(b, &rec); err != nil {
		return model.WorkflowRecord{}, fmt.Errorf("storage: decode record: %w", err)
	}
	return rec, nil
}

// RecordStore saves workflow records in a CAS.
type RecordStore struct {
	CAS CAS
}

// Save stores rec and returns its CID. Saving the same record twice yields
// the same CID.
func (s RecordStore) Save(rec model.WorkflowRecord) (cid.Cid, error) {
	if s.CAS == nil {
		return cid.Undef, fmt.Errorf("storage: RecordStore has no CAS")
	}
	b, err := EncodeRecord(rec)
	if err != nil {
		return cid.Undef, err
	}
	return s.CAS.Put(b)
}

// Load fetches and decodes the record stored under id.
func (s RecordStore) Load(id cid.Cid) (model.WorkflowRecord, error) {
	if s.CAS == nil {
		return model.WorkflowRecord{}, fmt.Errorf("storage: RecordStore has no CAS")
	}
	b, err := s.CAS.Get(id)
	if err != nil {
		return model.WorkflowRecord{}, err
	}
	return DecodeRecord(b)
}

// LoadString is Load for a CID in text form.
func (s RecordStore) LoadString(id string) (model.WorkflowRecord, error) {
	c, err := cid.Decode(id)
	if err != nil {
		return model.WorkflowRecord{}, fmt.Errorf("%w: %v", ErrInvalidCID, err)
	}
	return s.Load(c)
}
