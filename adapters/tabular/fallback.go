package tabular

import (
	"math/rand"
	"os"

	"failboard/domain/survey"
	"failboard/internal"
	"failboard/ports"
)

// SampleSource generates a fixed-seed synthetic row set covering the same
// categorical domains as the real survey, used whenever the configured file
// cannot be read. The same seed always yields the same rows.
type SampleSource struct {
	seed int64
	n    int
}

// NewSampleSource creates a deterministic sample generator.
func NewSampleSource(seed int64, n int) *SampleSource {
	return &SampleSource{seed: seed, n: n}
}

// Name describes the source.
func (s *SampleSource) Name() string { return "built-in sample data" }

var (
	sampleFailureTypes = []string{
		"Understanding", "Attention", "Response", "Wakeword", "Action Execution",
	}
	sampleFailureSources = []string{"ASR", "NLU", "TTS", "Hardware", "Integration"}
	sampleGenders        = []string{
		"Woman", "Man", "Man,Woman", "Prefer not to answer",
	}
	sampleAges = []string{
		"18-24", "25-34", "35-44", "45-54", "55-64", "Prefer not to answer",
	}
	sampleRaces = []string{
		"White", "Asian", "Black or African American",
		"Hispanic or Latino", "White,Asian",
	}
	sampleAccents     = []string{"Yes", "No", "Maybe"}
	sampleFrequencies = []string{
		"Daily", "4-6 times a week", "2-3 times a week", "Once a week",
	}
)

// Records generates the synthetic rows. Roughly one cell in fifteen is left
// blank so the Unknown buckets render on the demo dashboard too.
func (s *SampleSource) Records() ([]survey.RawRecord, error) {
	rng := rand.New(rand.NewSource(s.seed))
	pick := func(options []string) *string {
		if rng.Intn(15) == 0 {
			return nil
		}
		v := options[rng.Intn(len(options))]
		return &v
	}

	rows := make([]survey.RawRecord, s.n)
	for i := range rows {
		rows[i] = survey.RawRecord{
			FailureType:   pick(sampleFailureTypes),
			FailureSource: pick(sampleFailureSources),
			Gender:        pick(sampleGenders),
			Age:           pick(sampleAges),
			Race:          pick(sampleRaces),
			Accent:        pick(sampleAccents),
			Frequency:     pick(sampleFrequencies),
		}
	}
	return rows, nil
}

// Open returns a source for the configured file, or the sample fallback with
// a warning when the file is missing. A missing dataset is a degraded state,
// never a startup failure.
func Open(path string, seed int64, sampleRows int, log *internal.Logger) ports.RecordSource {
	if _, err := os.Stat(path); err != nil {
		log.Warn("dataset %s not readable (%v), falling back to sample data", path, err)
		return NewSampleSource(seed, sampleRows)
	}
	return NewFileSource(path)
}
