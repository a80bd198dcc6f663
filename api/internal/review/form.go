package review

import (
	"credit-bot/api/internal/portal"
)

// ScoredFields are the form keys the portal extracts and scores, in display
// order. Keys are stable in both directions and must match the portal.
var ScoredFields = []string{
	"name",
	"apaar_id",
	"institution_code",
	"organization",
	"internship_title",
	"start_date",
	"end_date",
	"hours",
}

// PassthroughFields are collected from the form but never auto-filled or
// confidence-scored.
var PassthroughFields = []string{"level", "logs"}

var fieldLabels = map[string]string{
	"name":             "Student Name",
	"apaar_id":         "APAAR ID",
	"institution_code": "Institution Code",
	"organization":     "Organization",
	"internship_title": "Internship Title",
	"start_date":       "Start Date",
	"end_date":         "End Date",
	"hours":            "Hours",
	"level":            "Level",
	"logs":             "Daily Logs",
}

// FieldLabel returns the human label for a form key.
func FieldLabel(name string) string {
	if l, ok := fieldLabels[name]; ok {
		return l
	}
	return name
}

func isScored(name string) bool {
	for _, f := range ScoredFields {
		if f == name {
			return true
		}
	}
	return false
}

// Banner is the one aggregate summary shown above the form.
type Banner int

const (
	BannerNone      Banner = iota // nothing was auto-filled
	BannerAllHigh                 // every auto-filled field is high confidence
	BannerAttention               // at least one field needs the student's eye
)

// FormSnapshot is the persistable state of a Form (draft store, JSON).
type FormSnapshot struct {
	Values      map[string]string  `json:"values"`
	Confidences map[string]float64 `json:"confidences"`
	Edited      map[string]bool    `json:"edited"`
}

// Form tracks one review session: current values, recorded confidences, and
// which fields the student has verified by editing. It owns the gating
// decision for submission and never touches the network itself.
type Form struct {
	values map[string]string
	conf   map[string]float64 // scored fields only
	edited map[string]bool
}

func NewForm() *Form {
	return &Form{
		values: make(map[string]string),
		conf:   make(map[string]float64),
		edited: make(map[string]bool),
	}
}

// AutoFill hydrates the scored fields from an extraction result. Only known
// keys with non-empty values are taken; anything else the extractor produced
// (cert_id, signatory_*, ...) is ignored. Calling it again with the same data
// yields the same state, and a fresh auto-fill discards earlier edits of the
// scored fields.
func (f *Form) AutoFill(fields map[string]portal.ExtractedField) {
	for _, name := range ScoredFields {
		delete(f.values, name)
		delete(f.conf, name)
		delete(f.edited, name)
	}
	for _, name := range ScoredFields {
		ef, ok := fields[name]
		if !ok || ef.Value == "" {
			continue
		}
		f.values[name] = ef.Value
		f.conf[name] = ef.Conf
	}
}

// FieldEdited records a manual change. For scored fields the recorded
// confidence becomes 1.0 — the portal must never see a stale low score for a
// value the student corrected. The transition is one-way until the next
// auto-fill. Passthrough fields carry values only.
func (f *Form) FieldEdited(name, value string) {
	f.values[name] = value
	if isScored(name) {
		f.conf[name] = 1.0
		f.edited[name] = true
	}
}

// Value returns the current form value for a key ("" when unset).
func (f *Form) Value(name string) string { return f.values[name] }

// LevelFor returns the display level for a scored field, LevelUnset when the
// field has no recorded confidence.
func (f *Form) LevelFor(name string) Level {
	c, ok := f.conf[name]
	if !ok {
		return LevelUnset
	}
	return LevelOf(c)
}

// Verified reports whether the student edited the field this session.
func (f *Form) Verified(name string) bool { return f.edited[name] }

// NeedsConfirmation reports whether any field is currently low or medium
// confidence. Evaluated live at submit time; edits change the answer.
func (f *Form) NeedsConfirmation() bool {
	for _, name := range ScoredFields {
		c, ok := f.conf[name]
		if ok && LevelOf(c).NeedsVerification() {
			return true
		}
	}
	return false
}

// Banner computes the aggregate summary over the currently tracked fields.
func (f *Form) Banner() Banner {
	tracked := 0
	allHigh := true
	for _, name := range ScoredFields {
		c, ok := f.conf[name]
		if !ok {
			continue
		}
		tracked++
		if LevelOf(c) != LevelHigh {
			allHigh = false
		}
	}
	switch {
	case tracked == 0:
		return BannerNone
	case allHigh:
		return BannerAllHigh
	default:
		return BannerAttention
	}
}

// Submission assembles the finalize payload. field_confidences holds only
// fields with a recorded confidence — never auto-filled nor edited means
// omitted, not defaulted.
func (f *Form) Submission(uploadID string) portal.Submission {
	sub := portal.Submission{
		Name:            f.values["name"],
		ApaarID:         f.values["apaar_id"],
		InstitutionCode: f.values["institution_code"],
		Organization:    f.values["organization"],
		InternshipTitle: f.values["internship_title"],
		StartDate:       f.values["start_date"],
		EndDate:         f.values["end_date"],
		Hours:           f.values["hours"],
		Level:           f.values["level"],
		Logs:            f.values["logs"],

		UploadID:         uploadID,
		FieldConfidences: make(map[string]portal.FieldConfidence, len(f.conf)),
	}
	for name, c := range f.conf {
		sub.FieldConfidences[name] = portal.FieldConfidence{Value: f.values[name], Conf: c}
	}
	return sub
}

// Snapshot exports the form state for the draft store.
func (f *Form) Snapshot() FormSnapshot {
	s := FormSnapshot{
		Values:      make(map[string]string, len(f.values)),
		Confidences: make(map[string]float64, len(f.conf)),
		Edited:      make(map[string]bool, len(f.edited)),
	}
	for k, v := range f.values {
		s.Values[k] = v
	}
	for k, v := range f.conf {
		s.Confidences[k] = v
	}
	for k, v := range f.edited {
		s.Edited[k] = v
	}
	return s
}

// RestoreForm rebuilds a Form from a stored snapshot.
func RestoreForm(s FormSnapshot) *Form {
	f := NewForm()
	for k, v := range s.Values {
		f.values[k] = v
	}
	for k, v := range s.Confidences {
		f.conf[k] = v
	}
	for k, v := range s.Edited {
		f.edited[k] = v
	}
	return f
}
