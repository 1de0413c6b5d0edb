package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is a hex-encoded SHA-256 digest.
type Hash string

// NewHash digests data.
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation.
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty.
func (h Hash) IsEmpty() bool {
	return h == ""
}

// DatasetHash identifies the byte content of a loaded dataset. The prepare
// memo keys on it: equal hashes must map to identical clean records.
type DatasetHash Hash

// NewDatasetHash digests serialized dataset content.
func NewDatasetHash(data []byte) DatasetHash { return DatasetHash(NewHash(data)) }

// String returns the string representation.
func (h DatasetHash) String() string { return Hash(h).String() }
