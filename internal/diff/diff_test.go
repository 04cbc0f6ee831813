package diff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlens/formdiff/internal/docmodel"
	"github.com/formlens/formdiff/internal/extract"
)

func strPtr(s string) *string { return &s }

func rectPtr(x0, y0, x1, y1 float64) *docmodel.Rect {
	r := docmodel.NewRect(x0, y0, x1, y1)
	return &r
}

func field(id string, t extract.FieldType, page, order int) extract.FieldRecord {
	return extract.FieldRecord{
		FieldID:    id,
		Type:       t,
		PageNumber: page,
		PageOrder:  order,
		Position:   rectPtr(100, 700, 200, 714),
	}
}

func defaultEngine() *Engine {
	return NewEngine(DefaultOptions())
}

func meta(pages int) docmodel.Metadata {
	return docmodel.Metadata{PageCount: pages}
}

func TestCompare_AddedRemovedModified(t *testing.T) {
	// Source has {A: text, B: radiobutton [Yes, No]}; target has
	// {A: text with changed label, C: checkbox}. Every identity in the
	// union changed, so the modification percentage is 100.
	a1 := field("A", extract.FieldTypeText, 1, 0)
	a1.NearText = strPtr("Name")
	b := field("B", extract.FieldTypeRadio, 1, 1)
	b.ValueOptions = []string{"Yes", "No"}

	a2 := field("A", extract.FieldTypeText, 1, 0)
	a2.NearText = strPtr("Full name")
	c := field("C", extract.FieldTypeCheckbox, 1, 1)

	result, err := defaultEngine().Compare(
		[]extract.FieldRecord{a1, b},
		[]extract.FieldRecord{a2, c},
		meta(1), meta(1))
	require.NoError(t, err)

	require.Len(t, result.FieldChanges, 3)
	assert.Equal(t, "B", result.FieldChanges[0].FieldID)
	assert.Equal(t, StatusRemoved, result.FieldChanges[0].Status)
	assert.Equal(t, "C", result.FieldChanges[1].FieldID)
	assert.Equal(t, StatusAdded, result.FieldChanges[1].Status)
	assert.Equal(t, "A", result.FieldChanges[2].FieldID)
	assert.Equal(t, StatusModified, result.FieldChanges[2].Status)
	assert.Equal(t, AttrDifferent, result.FieldChanges[2].NearTextDiff)
	assert.Equal(t, AttrEqual, result.FieldChanges[2].ValueOptionsDiff)
	assert.Equal(t, AttrEqual, result.FieldChanges[2].PositionChange)
	assert.Equal(t, AttrEqual, result.FieldChanges[2].PageChange)

	assert.Equal(t, 100.0, result.GlobalMetrics.ModificationPercentage)
}

func TestCompare_IdempotentOnIdenticalInput(t *testing.T) {
	fields := []extract.FieldRecord{
		field("A", extract.FieldTypeText, 1, 0),
		field("B", extract.FieldTypeCheckbox, 1, 1),
	}
	m := docmodel.Metadata{Title: "Form", PageCount: 1}

	result, err := defaultEngine().Compare(fields, fields, m, m)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.GlobalMetrics.ModificationPercentage)
	for _, c := range result.FieldChanges {
		assert.Equal(t, StatusUnchanged, c.Status)
	}
	assert.True(t, result.GlobalMetrics.PageCount.Equal)
	assert.True(t, result.GlobalMetrics.FieldCount.Equal)
	assert.True(t, result.GlobalMetrics.Metadata.Title.Equal)
}

func TestCompare_MatchingCompleteness(t *testing.T) {
	source := []extract.FieldRecord{
		field("A", extract.FieldTypeText, 1, 0),
		field("B", extract.FieldTypeText, 1, 1),
		field("C", extract.FieldTypeText, 2, 0),
	}
	target := []extract.FieldRecord{
		field("B", extract.FieldTypeText, 1, 0),
		field("D", extract.FieldTypeText, 1, 1),
	}

	result, err := defaultEngine().Compare(source, target, meta(2), meta(1))
	require.NoError(t, err)

	// Every field id in the union appears exactly once.
	seen := map[string]int{}
	for _, c := range result.FieldChanges {
		seen[c.FieldID]++
	}
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1, "D": 1}, seen)

	// |ADDED| - |REMOVED| == len(target) - len(source).
	counts := map[ChangeStatus]int{}
	for _, c := range result.FieldChanges {
		counts[c.Status]++
	}
	assert.Equal(t, len(target)-len(source), counts[StatusAdded]-counts[StatusRemoved])
}

func TestCompare_OptionOrderIsSignificant(t *testing.T) {
	src := field("R", extract.FieldTypeRadio, 1, 0)
	src.ValueOptions = []string{"Yes", "No"}
	tgt := field("R", extract.FieldTypeRadio, 1, 0)
	tgt.ValueOptions = []string{"No", "Yes"}

	result, err := defaultEngine().Compare(
		[]extract.FieldRecord{src}, []extract.FieldRecord{tgt}, meta(1), meta(1))
	require.NoError(t, err)

	require.Len(t, result.FieldChanges, 1)
	change := result.FieldChanges[0]
	assert.Equal(t, StatusModified, change.Status)
	assert.Equal(t, AttrDifferent, change.ValueOptionsDiff)
}

func TestCompare_ValueOptionsNilVersusPresent(t *testing.T) {
	src := field("R", extract.FieldTypeRadio, 1, 0)
	tgt := field("R", extract.FieldTypeRadio, 1, 0)
	tgt.ValueOptions = []string{"Yes"}

	result, err := defaultEngine().Compare(
		[]extract.FieldRecord{src}, []extract.FieldRecord{tgt}, meta(1), meta(1))
	require.NoError(t, err)
	assert.Equal(t, AttrDifferent, result.FieldChanges[0].ValueOptionsDiff)
}

func TestCompare_PositionTolerance(t *testing.T) {
	tests := []struct {
		name     string
		rect     *docmodel.Rect
		expected AttributeFlag
	}{
		{
			name:     "sub_unit_drift_is_equal",
			rect:     rectPtr(100.6, 699.5, 200.3, 714.9),
			expected: AttrEqual,
		},
		{
			name:     "drift_beyond_tolerance_is_different",
			rect:     rectPtr(103, 700, 203, 714),
			expected: AttrDifferent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := field("A", extract.FieldTypeText, 1, 0)
			tgt := field("A", extract.FieldTypeText, 1, 0)
			tgt.Position = tt.rect

			result, err := defaultEngine().Compare(
				[]extract.FieldRecord{src}, []extract.FieldRecord{tgt}, meta(1), meta(1))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.FieldChanges[0].PositionChange)
		})
	}
}

func TestCompare_PageChangeForcesModified(t *testing.T) {
	src := field("A", extract.FieldTypeText, 1, 0)
	tgt := field("A", extract.FieldTypeText, 2, 0)

	result, err := defaultEngine().Compare(
		[]extract.FieldRecord{src}, []extract.FieldRecord{tgt}, meta(2), meta(2))
	require.NoError(t, err)

	change := result.FieldChanges[0]
	assert.Equal(t, StatusModified, change.Status)
	assert.Equal(t, AttrDifferent, change.PageChange)
}

func TestCompare_NearTextBothNilIsEqual(t *testing.T) {
	src := field("A", extract.FieldTypeText, 1, 0)
	tgt := field("A", extract.FieldTypeText, 1, 0)

	result, err := defaultEngine().Compare(
		[]extract.FieldRecord{src}, []extract.FieldRecord{tgt}, meta(1), meta(1))
	require.NoError(t, err)
	assert.Equal(t, AttrEqual, result.FieldChanges[0].NearTextDiff)
	assert.Equal(t, StatusUnchanged, result.FieldChanges[0].Status)
}

func TestCompare_NormalizedLabels(t *testing.T) {
	src := field("A", extract.FieldTypeText, 1, 0)
	src.NearText = strPtr("Full  Name")
	tgt := field("A", extract.FieldTypeText, 1, 0)
	tgt.NearText = strPtr("full name")

	strict, err := defaultEngine().Compare(
		[]extract.FieldRecord{src}, []extract.FieldRecord{tgt}, meta(1), meta(1))
	require.NoError(t, err)
	assert.Equal(t, AttrDifferent, strict.FieldChanges[0].NearTextDiff)

	normalized, err := NewEngine(Options{
		PositionTolerance: DefaultPositionTolerance,
		NormalizeNearText: true,
	}).Compare([]extract.FieldRecord{src}, []extract.FieldRecord{tgt}, meta(1), meta(1))
	require.NoError(t, err)
	assert.Equal(t, AttrEqual, normalized.FieldChanges[0].NearTextDiff)
}

func TestCompare_DuplicateFieldID(t *testing.T) {
	dup := []extract.FieldRecord{
		field("A", extract.FieldTypeText, 1, 0),
		field("A", extract.FieldTypeText, 1, 1),
	}
	clean := []extract.FieldRecord{field("B", extract.FieldTypeText, 1, 0)}

	tests := []struct {
		name         string
		source       []extract.FieldRecord
		target       []extract.FieldRecord
		expectedSide string
	}{
		{name: "duplicate_in_source", source: dup, target: clean, expectedSide: "source"},
		{name: "duplicate_in_target", source: clean, target: dup, expectedSide: "target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := defaultEngine().Compare(tt.source, tt.target, meta(1), meta(1))
			assert.Nil(t, result)

			var dupErr *DuplicateFieldIDError
			require.ErrorAs(t, err, &dupErr)
			assert.Equal(t, "A", dupErr.FieldID)
			assert.Equal(t, tt.expectedSide, dupErr.Side)
		})
	}
}

func TestCompare_EmptyInputs(t *testing.T) {
	result, err := defaultEngine().Compare(nil, nil, meta(0), meta(0))
	require.NoError(t, err)

	// Empty union is defined as 0.0, not NaN.
	assert.Equal(t, 0.0, result.GlobalMetrics.ModificationPercentage)
	assert.Empty(t, result.FieldChanges)
}

func TestCompare_ChangeOrderingContract(t *testing.T) {
	// Removed before added before modified before unchanged; within a
	// status, source (page, order) for matched and removed, target
	// (page, order) for added.
	src := []extract.FieldRecord{
		field("unchanged1", extract.FieldTypeText, 1, 0),
		field("removed_p2", extract.FieldTypeText, 2, 0),
		field("modified1", extract.FieldTypeText, 2, 1),
		field("removed_p1", extract.FieldTypeText, 1, 1),
	}
	mod := field("modified1", extract.FieldTypeText, 2, 1)
	mod.NearText = strPtr("changed")
	tgt := []extract.FieldRecord{
		field("unchanged1", extract.FieldTypeText, 1, 0),
		mod,
		field("added_p3", extract.FieldTypeText, 3, 0),
		field("added_p1", extract.FieldTypeText, 1, 1),
	}

	result, err := defaultEngine().Compare(src, tgt, meta(3), meta(3))
	require.NoError(t, err)

	var ids []string
	for _, c := range result.FieldChanges {
		ids = append(ids, c.FieldID)
	}
	assert.Equal(t, []string{
		"removed_p1", "removed_p2",
		"added_p1", "added_p3",
		"modified1",
		"unchanged1",
	}, ids)
}

func TestCompare_GlobalMetrics(t *testing.T) {
	created := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	modifiedSrc := time.Date(2023, 4, 2, 9, 30, 0, 0, time.UTC)
	modifiedTgt := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	srcMeta := docmodel.Metadata{
		Title:            "Form v1",
		Author:           "Agency",
		CreationDate:     &created,
		ModificationDate: &modifiedSrc,
		PageCount:        2,
	}
	tgtMeta := docmodel.Metadata{
		Title:            "Form v2",
		Author:           "Agency",
		CreationDate:     &created,
		ModificationDate: &modifiedTgt,
		PageCount:        3,
	}

	source := []extract.FieldRecord{
		field("A", extract.FieldTypeText, 1, 0),
		field("B", extract.FieldTypeText, 1, 1),
	}
	target := []extract.FieldRecord{
		field("A", extract.FieldTypeText, 1, 0),
	}

	result, err := defaultEngine().Compare(source, target, srcMeta, tgtMeta)
	require.NoError(t, err)

	m := result.GlobalMetrics
	assert.Equal(t, CountDiff{Equal: false, Source: 2, Target: 3}, m.PageCount)
	assert.Equal(t, CountDiff{Equal: false, Source: 2, Target: 1}, m.FieldCount)
	assert.False(t, m.Metadata.Title.Equal)
	assert.True(t, m.Metadata.Author.Equal)
	assert.True(t, m.Metadata.Subject.Equal)
	assert.True(t, m.Metadata.CreationDate.Equal)
	assert.False(t, m.Metadata.ModificationDate.Equal)

	// One of two distinct ids is removed: 50%.
	assert.Equal(t, 50.0, m.ModificationPercentage)
}

func TestCompare_DoesNotMutateInputs(t *testing.T) {
	src := []extract.FieldRecord{field("A", extract.FieldTypeText, 1, 0)}
	tgt := []extract.FieldRecord{field("B", extract.FieldTypeText, 1, 0)}
	srcCopy := []extract.FieldRecord{field("A", extract.FieldTypeText, 1, 0)}
	tgtCopy := []extract.FieldRecord{field("B", extract.FieldTypeText, 1, 0)}

	_, err := defaultEngine().Compare(src, tgt, meta(1), meta(1))
	require.NoError(t, err)
	assert.Equal(t, srcCopy, src)
	assert.Equal(t, tgtCopy, tgt)
}
