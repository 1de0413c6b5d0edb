package survey

import "strings"

// Preparer turns raw survey rows into clean, fully populated records using
// deterministic per-field rules. Every rule is total: any input value,
// including nil and strings the survey never defined, maps to a defined
// output, so Prepare never fails and never discards a row.
type Preparer struct{}

// NewPreparer creates a preparer.
func NewPreparer() *Preparer {
	return &Preparer{}
}

// Prepare cleans rows in input order. The output always has exactly one
// CleanRecord per input row.
func (p *Preparer) Prepare(rows []RawRecord) []CleanRecord {
	out := make([]CleanRecord, len(rows))
	for i, row := range rows {
		out[i] = p.prepareOne(row)
	}
	return out
}

func (p *Preparer) prepareOne(row RawRecord) CleanRecord {
	return CleanRecord{
		FailureType:      passThrough(row.FailureType),
		FailureSource:    passThrough(row.FailureSource),
		GenderClean:      cleanGender(row.Gender),
		HasAccent:        cleanAccent(row.Accent),
		AgeClean:         cleanAge(row.Age),
		RaceClean:        cleanRace(row.Race),
		FrequencyNumeric: frequencyNumeric(row.Frequency),
	}
}

// passThrough keeps the source label and only fills missing values.
func passThrough(v *string) string {
	if v == nil {
		return Unknown
	}
	return *v
}

// cleanGender maps the survey's answer set onto display labels. Answers
// outside the lookup pass through unchanged so new survey variants keep
// rendering instead of vanishing into Unknown.
func cleanGender(v *string) string {
	if v == nil {
		return Unknown
	}
	if mapped, ok := genderLookup[*v]; ok {
		return mapped
	}
	return *v
}

// cleanAccent folds anything outside Yes/No/Maybe into Unknown.
func cleanAccent(v *string) string {
	if v == nil {
		return Unknown
	}
	switch *v {
	case "Yes", "No", "Maybe":
		return *v
	}
	return Unknown
}

// cleanAge only admits members of the fixed bucket set.
func cleanAge(v *string) string {
	if v == nil {
		return Unknown
	}
	for _, bucket := range AgeOrder {
		if bucket != Unknown && *v == bucket {
			return *v
		}
	}
	return Unknown
}

// cleanRace collapses multi-select answers (comma-joined by the survey tool)
// into a single bucket.
func cleanRace(v *string) string {
	if v == nil {
		return Unknown
	}
	if strings.Contains(*v, ",") {
		return MultiOther
	}
	return *v
}

// frequencyNumeric converts the usage label to uses per week; unrecognized
// labels count as zero usage rather than poisoning downstream means.
func frequencyNumeric(v *string) float64 {
	if v == nil {
		return 0
	}
	if n, ok := frequencyScale[*v]; ok {
		return n
	}
	return 0
}
