package model

// WorkflowRecord is everything a contract call needs from one payment
// workflow run. JSON keys match the fields the aptos call scripts consume.
//
// Byte vectors are []int so JSON renders numbers instead of base64.
type WorkflowRecord struct {
	Iterations     uint64 `json:"iterations" cbor:"iterations"`
	HashAlgorithm  string `json:"hash_algorithm" cbor:"hash_algorithm"`
	OptHex         string `json:"opt_hex" cbor:"opt_hex"`
	TailHex        string `json:"tail_hex" cbor:"tail_hex"`
	OptASCIIBytes  []int  `json:"opt_ascii_bytes" cbor:"opt_ascii_bytes"`
	TailASCIIBytes []int  `json:"tail_ascii_bytes" cbor:"tail_ascii_bytes"`
	OptJSON        string `json:"opt_json" cbor:"opt_json"`
	TailJSON       string `json:"tail_json" cbor:"tail_json"`
	AptosOptArg    string `json:"aptos_opt_format" cbor:"aptos_opt_format"`
	AptosTailArg   string `json:"aptos_tail_format" cbor:"aptos_tail_format"`
	TailCID        string `json:"tail_cid" cbor:"tail_cid"`
	VerificationOK bool   `json:"verification_ok" cbor:"verification_ok"`
}

// HashResult is the output of a Move-compatible hash computation.
type HashResult struct {
	Type          string `json:"type"`
	HashAlgorithm string `json:"hash_algorithm"`
	BCSHex        string `json:"bcs_hex"`
	BCSLength     int    `json:"bcs_length"`
	Hash          string `json:"hash"`
}

// BridgeResult describes one hex-to-ASCII conversion.
type BridgeResult struct {
	Hex        string `json:"hex"`
	ASCIIBytes []int  `json:"ascii_bytes"`
	MoveArg    string `json:"move_arg"`
}

// VerifyResult is the outcome of a chain-adjacency check.
type VerifyResult struct {
	OneTimeValue string `json:"one_time_value"`
	Tail         string `json:"tail"`
	Computed     string `json:"computed"`
	OK           bool   `json:"ok"`
}

// StoredRecord pairs a record with its content identifier.
type StoredRecord struct {
	CID    string         `json:"cid"`
	Record WorkflowRecord `json:"record"`
}
