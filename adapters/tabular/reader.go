package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"failboard/domain/survey"
	"failboard/internal/errors"
)

// Column names the reader looks for, matched case-insensitively so exports
// from different survey tools line up (the reference file uses Failure_Type).
const (
	colAccent        = "accent"
	colRace          = "race"
	colAge           = "age"
	colFailureType   = "failure_type"
	colFailureSource = "failure_source"
	colGender        = "gender"
	colFrequency     = "frequency"
)

// FileSource reads survey rows from a CSV or XLSX file on disk.
type FileSource struct {
	path     string
	fileType string // "csv" or "xlsx"
}

// NewFileSource creates a source for the given path, picking the decoder
// from the extension.
func NewFileSource(path string) *FileSource {
	fileType := "csv"
	if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
		fileType = "xlsx"
	}
	return &FileSource{path: path, fileType: fileType}
}

// Name describes the source for logs and the dashboard header.
func (s *FileSource) Name() string {
	return filepath.Base(s.path)
}

// Records reads and decodes the full file.
func (s *FileSource) Records() ([]survey.RawRecord, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, errors.SourceUnavailable("file not found: " + s.path)
	}

	var rows [][]string
	var err error
	switch s.fileType {
	case "xlsx":
		rows, err = readXLSXRows(s.path)
	default:
		rows, err = readCSVRows(s.path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", s.path)
	}
	return DecodeRows(rows)
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Survey exports occasionally have ragged trailing columns.
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows("Sheet1")
}

// DecodeRows maps a header row plus data rows onto RawRecords. Cells that
// are empty after trimming become nil so the preparer can apply its
// missing-value rules. Unrecognized columns are ignored.
func DecodeRows(rows [][]string) ([]survey.RawRecord, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidInput("input has no header row")
	}

	index := make(map[string]int)
	for i, header := range rows[0] {
		index[normalizeHeader(header)] = i
	}
	for _, required := range []string{colAccent, colRace, colAge, colFailureType, colFailureSource, colGender, colFrequency} {
		if _, ok := index[required]; !ok {
			return nil, errors.InvalidInput("missing required column: " + required)
		}
	}

	records := make([]survey.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, survey.RawRecord{
			FailureType:   cellAt(row, index[colFailureType]),
			FailureSource: cellAt(row, index[colFailureSource]),
			Gender:        cellAt(row, index[colGender]),
			Age:           cellAt(row, index[colAge]),
			Race:          cellAt(row, index[colRace]),
			Accent:        cellAt(row, index[colAccent]),
			Frequency:     cellAt(row, index[colFrequency]),
		})
	}
	return records, nil
}

// DecodeCSV decodes CSV content from a stream, for uploads.
func DecodeCSV(r io.Reader) ([]survey.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse uploaded CSV")
	}
	return DecodeRows(rows)
}

// DecodeXLSX decodes XLSX content from a stream, for uploads.
func DecodeXLSX(r io.Reader) ([]survey.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse uploaded XLSX")
	}
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read uploaded XLSX")
	}
	return DecodeRows(rows)
}

// DecodeUpload picks the decoder from the uploaded filename's extension.
func DecodeUpload(filename string, r io.Reader) ([]survey.RawRecord, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".xlsx" {
		return DecodeXLSX(r)
	}
	return DecodeCSV(r)
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// cellAt returns the trimmed cell as a pointer, nil when blank or the row is
// shorter than the header.
func cellAt(row []string, i int) *string {
	if i >= len(row) {
		return nil
	}
	v := strings.TrimSpace(row[i])
	if v == "" {
		return nil
	}
	return &v
}

// MemorySource holds rows that arrived by upload rather than from disk.
type MemorySource struct {
	name string
	rows []survey.RawRecord
}

// NewMemorySource wraps already-decoded rows.
func NewMemorySource(name string, rows []survey.RawRecord) *MemorySource {
	return &MemorySource{name: name, rows: rows}
}

// Name describes the source.
func (s *MemorySource) Name() string { return s.name }

// Records returns the held rows.
func (s *MemorySource) Records() ([]survey.RawRecord, error) { return s.rows, nil }
