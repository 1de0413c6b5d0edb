package ports

import "failboard/domain/survey"

// RecordSource yields raw survey rows from some backing file or fixture.
// Implementations do all the I/O; the domain layer only ever sees the rows.
type RecordSource interface {
	// Name describes the source for logs and the dashboard header.
	Name() string

	// Records reads the full row set. The dataset is small by contract,
	// so there is no streaming variant.
	Records() ([]survey.RawRecord, error)
}
