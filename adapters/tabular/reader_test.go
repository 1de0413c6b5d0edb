package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"failboard/internal"
	interrors "failboard/internal/errors"
)

const sampleCSV = `accent,race,age,Failure_Type,Failure_Source,gender,Frequency
Yes,Asian,25-34,Understanding,ASR,Woman,Daily
,White,,"Attention",NLU,Man,
Maybe,"Black or African American,White",45-54,Response,TTS,"Man,Woman",Once a week
`

func TestDecodeCSVMapsHeadersCaseInsensitively(t *testing.T) {
	records, err := DecodeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	require.NotNil(t, first.Accent)
	assert.Equal(t, "Yes", *first.Accent)
	require.NotNil(t, first.FailureType)
	assert.Equal(t, "Understanding", *first.FailureType)
	require.NotNil(t, first.Frequency)
	assert.Equal(t, "Daily", *first.Frequency)
}

func TestDecodeCSVBlankCellsBecomeNil(t *testing.T) {
	records, err := DecodeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	second := records[1]
	assert.Nil(t, second.Accent)
	assert.Nil(t, second.Age)
	assert.Nil(t, second.Frequency)
	require.NotNil(t, second.Race)
	assert.Equal(t, "White", *second.Race)
}

func TestDecodeCSVKeepsQuotedCommas(t *testing.T) {
	records, err := DecodeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	third := records[2]
	require.NotNil(t, third.Race)
	assert.Equal(t, "Black or African American,White", *third.Race)
	require.NotNil(t, third.Gender)
	assert.Equal(t, "Man,Woman", *third.Gender)
}

func TestDecodeCSVMissingColumn(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("accent,race\nYes,Asian\n"))
	require.Error(t, err)
	assert.Equal(t, interrors.CodeInvalidInput, interrors.GetCode(err))
}

func TestDecodeRowsRaggedRow(t *testing.T) {
	rows := [][]string{
		{"accent", "race", "age", "failure_type", "failure_source", "gender", "frequency"},
		{"Yes", "Asian"}, // trailing cells missing entirely
	}
	records, err := DecodeRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Gender)
	require.NotNil(t, records[0].Accent)
	assert.Equal(t, "Yes", *records[0].Accent)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource("testdata/definitely-missing.csv")
	_, err := src.Records()
	require.Error(t, err)
	assert.Equal(t, interrors.CodeSourceUnavailable, interrors.GetCode(err))
}

func TestOpenFallsBackToSample(t *testing.T) {
	log := internal.NewLogger(internal.LogLevelError)
	src := Open("testdata/definitely-missing.csv", 42, 50, log)
	assert.Equal(t, "built-in sample data", src.Name())

	rows, err := src.Records()
	require.NoError(t, err)
	assert.Len(t, rows, 50)
}
