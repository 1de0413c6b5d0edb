package survey

// RawRecord is one voice-assistant failure report as it arrives from the
// source file. Nil pointers mark cells that were empty or absent; records
// carry no unique identifier and their order has no meaning.
type RawRecord struct {
	FailureType   *string `json:"failure_type"`
	FailureSource *string `json:"failure_source"`
	Gender        *string `json:"gender"`
	Age           *string `json:"age"`
	Race          *string `json:"race"`
	Accent        *string `json:"accent"`
	Frequency     *string `json:"frequency"`
}

// CleanRecord is the fully derived form of a RawRecord. Every field is
// populated; the derived categorical fields always land in their declared
// label domains.
type CleanRecord struct {
	FailureType      string  `json:"failure_type"`
	FailureSource    string  `json:"failure_source"`
	GenderClean      string  `json:"gender_clean"`
	HasAccent        string  `json:"has_accent"`
	AgeClean         string  `json:"age_clean"`
	RaceClean        string  `json:"race_clean"`
	FrequencyNumeric float64 `json:"frequency_numeric"`
}

// Field names the categorical dimensions that filters, selections and
// groupings operate on.
type Field string

const (
	FieldFailureType   Field = "failure_type"
	FieldFailureSource Field = "failure_source"
	FieldGender        Field = "gender"
	FieldAccent        Field = "accent"
	FieldAge           Field = "age"
	FieldRace          Field = "race"
)

// Unknown is the catch-all label every cleaning rule falls back to.
const Unknown = "Unknown"

// MultiOther is the collapsed label for multi-valued race answers.
const MultiOther = "Multi/Other"

// AgeOrder is the display order for age buckets. Membership in this set
// (minus the trailing Unknown) is also the pass-through rule for AgeClean.
var AgeOrder = []string{
	"18-24", "25-34", "35-44", "45-54", "55-64", "Prefer not to answer", Unknown,
}

// AccentOrder is the display order for the has_accent labels.
var AccentOrder = []string{"Yes", "No", "Maybe", Unknown}

// GenderOrder is the display order for the cleaned gender labels. Unmapped
// source strings pass through and sort after these.
var GenderOrder = []string{"Woman", "Man", "Non-binary/Other", "Prefer not to answer", Unknown}

// genderLookup maps the source survey's gender answers onto display labels.
// Anything outside the lookup passes through as-is.
var genderLookup = map[string]string{
	"Woman":                "Woman",
	"Man":                  "Man",
	"Man,Woman":            "Non-binary/Other",
	"Prefer not to answer": "Prefer not to answer",
}

// frequencyScale converts the usage-frequency answer into uses per week.
var frequencyScale = map[string]float64{
	"Daily":            7,
	"4-6 times a week": 5,
	"2-3 times a week": 2.5,
	"Once a week":      1,
}

// Value returns the record's label for the given field. Unrecognized fields
// report ok=false so callers can reject bad view configurations early.
func (r CleanRecord) Value(f Field) (string, bool) {
	switch f {
	case FieldFailureType:
		return r.FailureType, true
	case FieldFailureSource:
		return r.FailureSource, true
	case FieldGender:
		return r.GenderClean, true
	case FieldAccent:
		return r.HasAccent, true
	case FieldAge:
		return r.AgeClean, true
	case FieldRace:
		return r.RaceClean, true
	}
	return "", false
}

// Domain returns the fixed, display-ordered label set for a field, or nil for
// open-ended fields (failure type/source, race) whose values come from the
// data itself.
func Domain(f Field) []string {
	switch f {
	case FieldAccent:
		return AccentOrder
	case FieldAge:
		return AgeOrder
	case FieldGender:
		return GenderOrder
	}
	return nil
}

// Fields lists every coordinated field in a stable order.
func Fields() []Field {
	return []Field{
		FieldFailureType, FieldFailureSource, FieldGender,
		FieldAccent, FieldAge, FieldRace,
	}
}

// ParseField validates a wire-format field name.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldFailureType, FieldFailureSource, FieldGender, FieldAccent, FieldAge, FieldRace:
		return Field(s), true
	}
	return "", false
}
