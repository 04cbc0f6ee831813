// Package diff compares two independently extracted field sets and
// produces a field-level change report with aggregate metrics. Like the
// extraction core it is pure: no I/O, no hidden state, deterministic for
// identical inputs.
package diff

import (
	"sort"
	"strings"
	"time"

	"github.com/formlens/formdiff/internal/docmodel"
	"github.com/formlens/formdiff/internal/extract"
)

// DefaultPositionTolerance is the per-edge tolerance, in coordinate
// units, below which a bounding-box drift is not a meaningful change.
// Re-rendering the same logical layout commonly introduces sub-unit
// floating point drift.
const DefaultPositionTolerance = 1.0

// Options tunes the comparison. The zero value is not useful; use
// DefaultOptions as a base.
type Options struct {
	// PositionTolerance is the per-edge epsilon for position comparison.
	PositionTolerance float64
	// NormalizeNearText lowercases and collapses whitespace in labels
	// before comparing them. Off by default: labels compare as exact
	// strings.
	NormalizeNearText bool
}

// DefaultOptions returns the documented default comparison settings.
func DefaultOptions() Options {
	return Options{
		PositionTolerance: DefaultPositionTolerance,
		NormalizeNearText: false,
	}
}

// Engine compares field sets. Construct with NewEngine; a zero Engine
// uses a zero position tolerance.
type Engine struct {
	opts Options
}

// NewEngine creates a diff engine with the given options.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Compare matches the two field lists by field id and classifies every
// identity in their union as removed, added, modified, or unchanged.
// Field id is the sole join key: it is the only attribute the document
// authoring convention keeps stable across versions, while position and
// label are expected to drift and only feed change detection.
//
// Inputs are never mutated. A duplicate field id within either side
// fails the whole call with a DuplicateFieldIDError.
func (e *Engine) Compare(
	sourceFields, targetFields []extract.FieldRecord,
	sourceMeta, targetMeta docmodel.Metadata,
) (*ComparisonResult, error) {
	sourceByID, err := indexByID(sourceFields, "source")
	if err != nil {
		return nil, err
	}
	targetByID, err := indexByID(targetFields, "target")
	if err != nil {
		return nil, err
	}

	changes := make([]FieldChange, 0, len(sourceByID)+len(targetByID))

	for i := range sourceFields {
		src := &sourceFields[i]
		tgt, matched := targetByID[src.FieldID]
		if !matched {
			changes = append(changes, FieldChange{
				FieldID: src.FieldID,
				Status:  StatusRemoved,
				Source:  src,
			})
			continue
		}
		changes = append(changes, e.compareMatched(src, tgt))
	}
	for i := range targetFields {
		tgt := &targetFields[i]
		if _, matched := sourceByID[tgt.FieldID]; !matched {
			changes = append(changes, FieldChange{
				FieldID: tgt.FieldID,
				Status:  StatusAdded,
				Target:  tgt,
			})
		}
	}

	sortChanges(changes)

	notUnchanged := 0
	for _, c := range changes {
		if c.Status != StatusUnchanged {
			notUnchanged++
		}
	}

	return &ComparisonResult{
		GlobalMetrics: GlobalMetrics{
			PageCount: CountDiff{
				Equal:  sourceMeta.PageCount == targetMeta.PageCount,
				Source: sourceMeta.PageCount,
				Target: targetMeta.PageCount,
			},
			FieldCount: CountDiff{
				Equal:  len(sourceFields) == len(targetFields),
				Source: len(sourceFields),
				Target: len(targetFields),
			},
			Metadata:               compareMetadata(sourceMeta, targetMeta),
			ModificationPercentage: percentage(notUnchanged, len(changes)),
		},
		FieldChanges: changes,
	}, nil
}

// indexByID builds the field-id lookup for one side, failing fast on a
// duplicate id.
func indexByID(fields []extract.FieldRecord, side string) (map[string]*extract.FieldRecord, error) {
	byID := make(map[string]*extract.FieldRecord, len(fields))
	for i := range fields {
		id := fields[i].FieldID
		if _, dup := byID[id]; dup {
			return nil, &DuplicateFieldIDError{FieldID: id, Side: side}
		}
		byID[id] = &fields[i]
	}
	return byID, nil
}

// compareMatched compares the attributes of a matched pair. Any
// different sub-attribute, page change included, forces overall status
// modified.
func (e *Engine) compareMatched(src, tgt *extract.FieldRecord) FieldChange {
	change := FieldChange{
		FieldID:          src.FieldID,
		Source:           src,
		Target:           tgt,
		NearTextDiff:     flag(e.nearTextEqual(src.NearText, tgt.NearText)),
		ValueOptionsDiff: flag(optionsEqual(src.ValueOptions, tgt.ValueOptions)),
		PositionChange:   flag(e.positionEqual(src.Position, tgt.Position)),
		PageChange:       flag(src.PageNumber == tgt.PageNumber),
	}

	change.Status = StatusUnchanged
	if change.NearTextDiff == AttrDifferent ||
		change.ValueOptionsDiff == AttrDifferent ||
		change.PositionChange == AttrDifferent ||
		change.PageChange == AttrDifferent {
		change.Status = StatusModified
	}
	return change
}

func (e *Engine) nearTextEqual(src, tgt *string) bool {
	if src == nil || tgt == nil {
		return src == nil && tgt == nil
	}
	if e.opts.NormalizeNearText {
		return normalizeLabel(*src) == normalizeLabel(*tgt)
	}
	return *src == *tgt
}

// optionsEqual compares option lists as ordered sequences. A duplicated
// or reordered option is a real change; nil versus non-nil is a change.
func optionsEqual(src, tgt []string) bool {
	if (src == nil) != (tgt == nil) {
		return false
	}
	if len(src) != len(tgt) {
		return false
	}
	for i := range src {
		if src[i] != tgt[i] {
			return false
		}
	}
	return true
}

func (e *Engine) positionEqual(src, tgt *docmodel.Rect) bool {
	if src == nil || tgt == nil {
		return src == nil && tgt == nil
	}
	return src.WithinTolerance(*tgt, e.opts.PositionTolerance)
}

func compareMetadata(src, tgt docmodel.Metadata) MetadataDiff {
	return MetadataDiff{
		Title:            StringDiff{Equal: src.Title == tgt.Title, Source: src.Title, Target: tgt.Title},
		Author:           StringDiff{Equal: src.Author == tgt.Author, Source: src.Author, Target: tgt.Author},
		Subject:          StringDiff{Equal: src.Subject == tgt.Subject, Source: src.Subject, Target: tgt.Subject},
		CreationDate:     timeDiff(src.CreationDate, tgt.CreationDate),
		ModificationDate: timeDiff(src.ModificationDate, tgt.ModificationDate),
	}
}

func timeDiff(src, tgt *time.Time) TimeDiff {
	equal := false
	switch {
	case src == nil && tgt == nil:
		equal = true
	case src != nil && tgt != nil:
		equal = src.Equal(*tgt)
	}
	return TimeDiff{Equal: equal, Source: src, Target: tgt}
}

// statusPriority orders statuses so that actionable changes surface
// first in the report.
var statusPriority = map[ChangeStatus]int{
	StatusRemoved:   0,
	StatusAdded:     1,
	StatusModified:  2,
	StatusUnchanged: 3,
}

// sortChanges applies the ordering contract: status priority, then the
// record's (page_number, page_order) from the source side for matched
// and removed fields and from the target side for added fields.
func sortChanges(changes []FieldChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if statusPriority[a.Status] != statusPriority[b.Status] {
			return statusPriority[a.Status] < statusPriority[b.Status]
		}
		ap, ao := orderKey(a)
		bp, bo := orderKey(b)
		if ap != bp {
			return ap < bp
		}
		return ao < bo
	})
}

func orderKey(c FieldChange) (page, order int) {
	if c.Status == StatusAdded {
		return c.Target.PageNumber, c.Target.PageOrder
	}
	return c.Source.PageNumber, c.Source.PageOrder
}

func flag(equal bool) AttributeFlag {
	if equal {
		return AttrEqual
	}
	return AttrDifferent
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0.0
	}
	return float64(part) / float64(whole) * 100
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
