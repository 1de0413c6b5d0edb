package survey

import "testing"

func strPtr(s string) *string { return &s }

func TestPrepareFieldRules(t *testing.T) {
	p := NewPreparer()

	tests := []struct {
		name string
		row  RawRecord
		want CleanRecord
	}{
		{
			name: "fully answered row passes through",
			row: RawRecord{
				FailureType:   strPtr("Understanding"),
				FailureSource: strPtr("ASR"),
				Gender:        strPtr("Woman"),
				Age:           strPtr("25-34"),
				Race:          strPtr("Asian"),
				Accent:        strPtr("Yes"),
				Frequency:     strPtr("Daily"),
			},
			want: CleanRecord{
				FailureType:      "Understanding",
				FailureSource:    "ASR",
				GenderClean:      "Woman",
				HasAccent:        "Yes",
				AgeClean:         "25-34",
				RaceClean:        "Asian",
				FrequencyNumeric: 7,
			},
		},
		{
			name: "empty row maps every field to the fallback",
			row:  RawRecord{},
			want: CleanRecord{
				FailureType:      Unknown,
				FailureSource:    Unknown,
				GenderClean:      Unknown,
				HasAccent:        Unknown,
				AgeClean:         Unknown,
				RaceClean:        Unknown,
				FrequencyNumeric: 0,
			},
		},
		{
			name: "multi-select gender collapses to non-binary bucket",
			row:  RawRecord{Gender: strPtr("Man,Woman")},
			want: CleanRecord{
				FailureType: Unknown, FailureSource: Unknown,
				GenderClean: "Non-binary/Other",
				HasAccent:   Unknown, AgeClean: Unknown, RaceClean: Unknown,
			},
		},
		{
			name: "unmapped gender answer passes through unchanged",
			row:  RawRecord{Gender: strPtr("Agender")},
			want: CleanRecord{
				FailureType: Unknown, FailureSource: Unknown,
				GenderClean: "Agender",
				HasAccent:   Unknown, AgeClean: Unknown, RaceClean: Unknown,
			},
		},
		{
			name: "unexpected accent string folds to Unknown",
			row:  RawRecord{Accent: strPtr("Slight")},
			want: CleanRecord{
				FailureType: Unknown, FailureSource: Unknown, GenderClean: Unknown,
				HasAccent: Unknown, AgeClean: Unknown, RaceClean: Unknown,
			},
		},
		{
			name: "age outside the bucket set folds to Unknown",
			row:  RawRecord{Age: strPtr("65+")},
			want: CleanRecord{
				FailureType: Unknown, FailureSource: Unknown, GenderClean: Unknown,
				HasAccent: Unknown, AgeClean: Unknown, RaceClean: Unknown,
			},
		},
		{
			name: "comma in race collapses to Multi/Other",
			row:  RawRecord{Race: strPtr("Black or African American,White")},
			want: CleanRecord{
				FailureType: Unknown, FailureSource: Unknown, GenderClean: Unknown,
				HasAccent: Unknown, AgeClean: Unknown,
				RaceClean: MultiOther,
			},
		},
		{
			name: "fractional frequency label",
			row:  RawRecord{Frequency: strPtr("2-3 times a week")},
			want: CleanRecord{
				FailureType: Unknown, FailureSource: Unknown, GenderClean: Unknown,
				HasAccent: Unknown, AgeClean: Unknown, RaceClean: Unknown,
				FrequencyNumeric: 2.5,
			},
		},
		{
			name: "unrecognized frequency counts as zero",
			row:  RawRecord{Frequency: strPtr("Never")},
			want: CleanRecord{
				FailureType: Unknown, FailureSource: Unknown, GenderClean: Unknown,
				HasAccent: Unknown, AgeClean: Unknown, RaceClean: Unknown,
				FrequencyNumeric: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Prepare([]RawRecord{tt.row})
			if len(got) != 1 {
				t.Fatalf("Prepare returned %d records, want 1", len(got))
			}
			if got[0] != tt.want {
				t.Errorf("Prepare mismatch:\n got  %+v\n want %+v", got[0], tt.want)
			}
		})
	}
}

func TestPrepareIsOrderPreservingAndTotal(t *testing.T) {
	p := NewPreparer()
	rows := []RawRecord{
		{FailureType: strPtr("Attention")},
		{},
		{FailureType: strPtr("Understanding"), Accent: strPtr("Maybe")},
	}

	clean := p.Prepare(rows)
	if len(clean) != len(rows) {
		t.Fatalf("expected %d output records, got %d", len(rows), len(clean))
	}
	if clean[0].FailureType != "Attention" || clean[2].FailureType != "Understanding" {
		t.Errorf("output order does not match input order: %+v", clean)
	}

	for i, c := range clean {
		for _, f := range Fields() {
			v, ok := c.Value(f)
			if !ok {
				t.Fatalf("record %d: field %s not addressable", i, f)
			}
			if v == "" {
				t.Errorf("record %d: field %s left empty", i, f)
			}
		}
	}
}

func TestPrepareDerivedFieldsStayInDomain(t *testing.T) {
	p := NewPreparer()
	rows := []RawRecord{
		{Accent: strPtr("YES")}, // case matters: not a domain member
		{Accent: strPtr("Maybe"), Age: strPtr("55-64"), Gender: strPtr("Man")},
		{Age: strPtr("seventeen"), Gender: strPtr("Prefer not to answer")},
	}

	for _, c := range p.Prepare(rows) {
		if !contains(AccentOrder, c.HasAccent) {
			t.Errorf("has_accent %q outside %v", c.HasAccent, AccentOrder)
		}
		if !contains(AgeOrder, c.AgeClean) {
			t.Errorf("age_clean %q outside %v", c.AgeClean, AgeOrder)
		}
	}
}

// Re-cleaning an already-clean derived value must be a no-op.
func TestPrepareIdempotentOnCleanValues(t *testing.T) {
	p := NewPreparer()
	first := p.Prepare([]RawRecord{{
		Gender: strPtr("Man,Woman"),
		Age:    strPtr("45-54"),
		Accent: strPtr("No"),
		Race:   strPtr("White,Asian"),
	}})[0]

	second := p.Prepare([]RawRecord{{
		Gender: strPtr(first.GenderClean),
		Age:    strPtr(first.AgeClean),
		Accent: strPtr(first.HasAccent),
		Race:   strPtr(first.RaceClean),
	}})[0]

	if second.AgeClean != first.AgeClean {
		t.Errorf("age_clean not idempotent: %q -> %q", first.AgeClean, second.AgeClean)
	}
	if second.HasAccent != first.HasAccent {
		t.Errorf("has_accent not idempotent: %q -> %q", first.HasAccent, second.HasAccent)
	}
	if second.RaceClean != first.RaceClean {
		t.Errorf("race_clean not idempotent: %q -> %q", first.RaceClean, second.RaceClean)
	}
	if second.GenderClean != first.GenderClean {
		t.Errorf("gender_clean not idempotent: %q -> %q", first.GenderClean, second.GenderClean)
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
