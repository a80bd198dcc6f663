package portal

// ExtractedField is one recognized datum from a certificate, as returned by
// the portal's extraction service. A missing conf decodes to 0.
type ExtractedField struct {
	Value string  `json:"value"`
	Conf  float64 `json:"conf"`
}

// UploadResult is the portal's answer to an upload or an upload lookup.
// GET /api/upload/{id} returns more metadata (filename, timestamp); only the
// parts the client acts on are decoded.
type UploadResult struct {
	UploadID        string                    `json:"upload_id"`
	ExtractedFields map[string]ExtractedField `json:"extracted_fields"`
	RedirectURL     string                    `json:"redirect_url"`
}

// FieldConfidence is one entry of the field_confidences map sent at submit
// time: the field's current value and its current confidence. A field the
// student corrected is always recorded at 1.0.
type FieldConfidence struct {
	Value string  `json:"value"`
	Conf  float64 `json:"conf"`
}

// Submission is the payload of POST /api/submit_internship. Field names are
// the portal's stable form keys and must not change.
type Submission struct {
	Name            string `json:"name"`
	ApaarID         string `json:"apaar_id"`
	InstitutionCode string `json:"institution_code"`
	Organization    string `json:"organization"`
	InternshipTitle string `json:"internship_title"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Hours           string `json:"hours" validate:"omitempty,numeric"`
	Level           string `json:"level"`
	Logs            string `json:"logs"`

	UploadID         string                     `json:"upload_id"`
	FieldConfidences map[string]FieldConfidence `json:"field_confidences"`
}
