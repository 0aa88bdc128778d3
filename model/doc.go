// Package model defines stable boundary types for the CLI and record store.
//
// Commitment identity (chain digests, canonical bytes and CIDs) is unaffected
// by any projection. These structs are the only types intended for direct
// JSON/CBOR serialization by consumers.
package model
