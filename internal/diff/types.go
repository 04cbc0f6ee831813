package diff

import (
	"fmt"
	"time"

	"github.com/formlens/formdiff/internal/extract"
)

// ChangeStatus classifies one field identity across the two versions.
type ChangeStatus string

const (
	StatusRemoved   ChangeStatus = "removed"
	StatusAdded     ChangeStatus = "added"
	StatusModified  ChangeStatus = "modified"
	StatusUnchanged ChangeStatus = "unchanged"
)

// AttributeFlag marks a single compared attribute as equal or different.
type AttributeFlag string

const (
	AttrEqual     AttributeFlag = "equal"
	AttrDifferent AttributeFlag = "different"
)

// CountDiff carries an equal/different flag plus both raw counts.
type CountDiff struct {
	Equal  bool `json:"equal"`
	Source int  `json:"source"`
	Target int  `json:"target"`
}

// StringDiff carries an equal/different flag plus both raw values for a
// string-valued metadata attribute.
type StringDiff struct {
	Equal  bool   `json:"equal"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// TimeDiff carries an equal/different flag plus both timestamps.
// Timestamps are compared at full precision as provided by the decoder.
type TimeDiff struct {
	Equal  bool       `json:"equal"`
	Source *time.Time `json:"source,omitempty"`
	Target *time.Time `json:"target,omitempty"`
}

// MetadataDiff flags each document-level metadata attribute.
type MetadataDiff struct {
	Title            StringDiff `json:"title"`
	Author           StringDiff `json:"author"`
	Subject          StringDiff `json:"subject"`
	CreationDate     TimeDiff   `json:"creation_date"`
	ModificationDate TimeDiff   `json:"modification_date"`
}

// GlobalMetrics aggregates document-level comparison results.
// ModificationPercentage is the share of the union of field identities
// whose status is not unchanged, in percent; 0.0 when the union is empty.
type GlobalMetrics struct {
	PageCount              CountDiff    `json:"page_count"`
	FieldCount             CountDiff    `json:"field_count"`
	Metadata               MetadataDiff `json:"metadata"`
	ModificationPercentage float64      `json:"modification_percentage"`
}

// FieldChange describes one field identity in the comparison. Source is
// nil for added fields and Target is nil for removed fields. The
// per-attribute flags are populated only for matched pairs (modified or
// unchanged).
type FieldChange struct {
	FieldID          string               `json:"field_id"`
	Status           ChangeStatus         `json:"status"`
	Source           *extract.FieldRecord `json:"source,omitempty"`
	Target           *extract.FieldRecord `json:"target,omitempty"`
	NearTextDiff     AttributeFlag        `json:"near_text_diff,omitempty"`
	ValueOptionsDiff AttributeFlag        `json:"value_options_diff,omitempty"`
	PositionChange   AttributeFlag        `json:"position_change,omitempty"`
	PageChange       AttributeFlag        `json:"page_change,omitempty"`
}

// ComparisonResult is the immutable outcome of one Compare call.
//
// FieldChanges ordering is a contract, not an accident: changes come
// first by status priority (removed, added, modified, unchanged) so that
// actionable differences surface before noise, then by source
// (page_number, page_order) for matched and removed fields and by target
// (page_number, page_order) for added fields.
type ComparisonResult struct {
	GlobalMetrics GlobalMetrics `json:"global_metrics"`
	FieldChanges  []FieldChange `json:"field_changes"`
}

// DuplicateFieldIDError is a fatal precondition violation: the named
// field id appears more than once within one input side, so the identity
// matching invariant cannot hold. The compare is all-or-nothing.
type DuplicateFieldIDError struct {
	FieldID string
	Side    string // "source" or "target"
}

func (e *DuplicateFieldIDError) Error() string {
	return fmt.Sprintf("duplicate field id %q in %s field list", e.FieldID, e.Side)
}
