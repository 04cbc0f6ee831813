package extract

import (
	"github.com/formlens/formdiff/internal/docmodel"
)

// FieldType represents the normalized type of a form field.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radiobutton"
	FieldTypeSelect    FieldType = "select"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeButton    FieldType = "button"
	FieldTypeSignature FieldType = "signature"
)

// FieldRecord represents one interactive form control after extraction.
//
// PageOrder is the control's 0-indexed rank among the controls of its page,
// in decoder emission order. The extractor never re-sorts controls within a
// page, so (PageNumber, PageOrder) mirrors reading order as the document
// declares it and is unique within one extraction.
type FieldRecord struct {
	FieldID      string         `json:"field_id"`
	Type         FieldType      `json:"field_type"`
	RawType      string         `json:"raw_type"`
	PageNumber   int            `json:"page_number"`
	PageOrder    int            `json:"page_order"`
	NearText     *string        `json:"near_text,omitempty"`
	ValueOptions []string       `json:"value_options,omitempty"`
	Position     *docmodel.Rect `json:"position,omitempty"`
}

// Diagnostic records a non-fatal problem with a single control. The
// offending control is still emitted (with the affected attributes nil);
// dropping it would be indistinguishable from a removed field downstream.
type Diagnostic struct {
	PageNumber int    `json:"page_number"`
	FieldID    string `json:"field_id"`
	Message    string `json:"message"`
}

// Result is the complete output of one extraction: the ordered field
// records, the document metadata, and any per-control diagnostics.
type Result struct {
	Fields      []FieldRecord     `json:"fields"`
	Meta        docmodel.Metadata `json:"meta"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
}
