package core

import "github.com/google/uuid"

// ID represents a domain identifier.
type ID string

// NewID creates a new unique identifier using UUID v7 so IDs sort by
// creation time; falls back to v4 when v7 generation fails.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation.
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty.
func (id ID) IsEmpty() bool {
	return id == ""
}

// DatasetID tags one loaded dataset (a file read or an upload) for the
// lifetime of the process.
type DatasetID ID

// NewDatasetID creates a dataset identifier.
func NewDatasetID() DatasetID { return DatasetID(NewID()) }

// String returns the string representation.
func (id DatasetID) String() string { return ID(id).String() }
