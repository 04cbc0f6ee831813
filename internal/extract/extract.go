// Package extract turns a decoded document into an ordered list of
// FieldRecords, each enriched with a nearest-label guess. It is the leaf
// component of the structural comparison pipeline: pure functions over
// immutable inputs, no I/O, no retained state.
package extract

import (
	"fmt"

	"github.com/formlens/formdiff/internal/docmodel"
)

// Extractor extracts the form-field structure of a decoded document.
type Extractor struct{}

// NewExtractor creates a new extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract walks the document page by page and assembles field records in
// (page_number, page_order) ascending order. The input document is never
// mutated and the returned Result is freshly allocated on every call.
//
// A nil or internally inconsistent document yields a DecodeError. A valid
// document with zero controls yields the Result (metadata intact) together
// with a NoFormFieldsError so callers can distinguish an empty form from
// an unreadable document. Malformed individual controls are emitted with
// the affected attributes nil and a Diagnostic recorded alongside; they
// are never dropped.
func (e *Extractor) Extract(doc *docmodel.Document) (*Result, error) {
	if doc == nil {
		return nil, &DecodeError{Reason: "nil document"}
	}
	if doc.Meta.PageCount != len(doc.Pages) {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("metadata page count %d does not match %d decoded pages",
				doc.Meta.PageCount, len(doc.Pages)),
		}
	}

	result := &Result{
		Fields: make([]FieldRecord, 0),
		Meta:   doc.Meta,
	}
	seen := make(map[string]struct{})

	for _, page := range doc.Pages {
		for order, ctrl := range page.Controls {
			rec, diags, err := e.extractControl(page, ctrl, order, seen)
			if err != nil {
				return nil, err
			}
			result.Fields = append(result.Fields, rec)
			result.Diagnostics = append(result.Diagnostics, diags...)
		}
	}

	if len(result.Fields) == 0 {
		return result, &NoFormFieldsError{PageCount: doc.Meta.PageCount}
	}
	return result, nil
}

// extractControl builds the record for a single control. The control's
// rank within its page is its emission order as the decoder gave it;
// controls are never re-sorted.
func (e *Extractor) extractControl(
	page docmodel.Page,
	ctrl docmodel.Control,
	order int,
	seen map[string]struct{},
) (FieldRecord, []Diagnostic, error) {
	var diags []Diagnostic

	id := ctrl.ID
	if id == "" {
		id = fmt.Sprintf("unnamed_p%d_%d", page.Number, order)
		diags = append(diags, Diagnostic{
			PageNumber: page.Number,
			FieldID:    id,
			Message:    "control has no name, synthetic id assigned",
		})
	}
	if _, dup := seen[id]; dup {
		return FieldRecord{}, nil, &DuplicateFieldIDError{FieldID: id, PageNumber: page.Number}
	}
	seen[id] = struct{}{}

	fieldType := NormalizeKind(ctrl.Kind)

	rec := FieldRecord{
		FieldID:    id,
		Type:       fieldType,
		RawType:    ctrl.Kind,
		PageNumber: page.Number,
		PageOrder:  order,
	}

	// Option lists are a document authoring fact: order preserved, no
	// dedup, and only choice controls carry one.
	if isChoice(fieldType) && ctrl.Options != nil {
		rec.ValueOptions = append([]string(nil), ctrl.Options...)
	}

	if ctrl.Rect == nil {
		diags = append(diags, Diagnostic{
			PageNumber: page.Number,
			FieldID:    id,
			Message:    "control has no bounding box, position and label omitted",
		})
		return rec, diags, nil
	}

	pos := *ctrl.Rect
	rec.Position = &pos
	rec.NearText = nearestLabel(pos, page.Spans)
	return rec, diags, nil
}
