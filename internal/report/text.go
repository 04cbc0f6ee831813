// Package report renders comparison results for human and machine
// consumers: plain text, JSON, and XLSX workbooks.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/formlens/formdiff/internal/diff"
	"github.com/formlens/formdiff/internal/extract"
)

// Text renders a comparison result as a plain-text report. Field changes
// keep the result's ordering contract, so actionable changes come first.
func Text(res *diff.ComparisonResult, sourceName, targetName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Comparison: %s -> %s\n", sourceName, targetName)
	fmt.Fprintf(&b, "Modification: %.1f%%\n", res.GlobalMetrics.ModificationPercentage)
	b.WriteString(countLine("Pages", res.GlobalMetrics.PageCount))
	b.WriteString(countLine("Fields", res.GlobalMetrics.FieldCount))
	b.WriteString(metadataLines(res.GlobalMetrics.Metadata))
	b.WriteString("\n")

	counts := map[diff.ChangeStatus]int{}
	for _, c := range res.FieldChanges {
		counts[c.Status]++
	}
	fmt.Fprintf(&b, "Changes: %d removed, %d added, %d modified, %d unchanged\n\n",
		counts[diff.StatusRemoved], counts[diff.StatusAdded],
		counts[diff.StatusModified], counts[diff.StatusUnchanged])

	for _, c := range res.FieldChanges {
		b.WriteString(changeLine(c))
	}
	return b.String()
}

func countLine(label string, d diff.CountDiff) string {
	if d.Equal {
		return fmt.Sprintf("%s: %d (unchanged)\n", label, d.Source)
	}
	return fmt.Sprintf("%s: %d -> %d\n", label, d.Source, d.Target)
}

func metadataLines(m diff.MetadataDiff) string {
	var b strings.Builder
	stringLine(&b, "Title", m.Title)
	stringLine(&b, "Author", m.Author)
	stringLine(&b, "Subject", m.Subject)
	timeLine(&b, "Created", m.CreationDate)
	timeLine(&b, "Modified", m.ModificationDate)
	return b.String()
}

func stringLine(b *strings.Builder, label string, d diff.StringDiff) {
	if d.Equal {
		return
	}
	fmt.Fprintf(b, "%s: %q -> %q\n", label, d.Source, d.Target)
}

func timeLine(b *strings.Builder, label string, d diff.TimeDiff) {
	if d.Equal {
		return
	}
	src, tgt := "(none)", "(none)"
	if d.Source != nil {
		src = d.Source.String()
	}
	if d.Target != nil {
		tgt = d.Target.String()
	}
	fmt.Fprintf(b, "%s: %s -> %s\n", label, src, tgt)
}

func changeLine(c diff.FieldChange) string {
	switch c.Status {
	case diff.StatusRemoved:
		return fmt.Sprintf("[removed]   %s (%s, page %d)\n",
			c.FieldID, c.Source.Type, c.Source.PageNumber)
	case diff.StatusAdded:
		return fmt.Sprintf("[added]     %s (%s, page %d)\n",
			c.FieldID, c.Target.Type, c.Target.PageNumber)
	case diff.StatusModified:
		return fmt.Sprintf("[modified]  %s (%s, page %d): %s\n",
			c.FieldID, c.Source.Type, c.Source.PageNumber, strings.Join(changedAttrs(c), ", "))
	default:
		return fmt.Sprintf("[unchanged] %s (%s, page %d)\n",
			c.FieldID, c.Source.Type, c.Source.PageNumber)
	}
}

// changedAttrs names the sub-attributes flagged different on a matched
// pair, with old and new values where they read well inline.
func changedAttrs(c diff.FieldChange) []string {
	var attrs []string
	if c.NearTextDiff == diff.AttrDifferent {
		attrs = append(attrs, fmt.Sprintf("label %s -> %s",
			labelText(c.Source), labelText(c.Target)))
	}
	if c.ValueOptionsDiff == diff.AttrDifferent {
		attrs = append(attrs, fmt.Sprintf("options %v -> %v",
			c.Source.ValueOptions, c.Target.ValueOptions))
	}
	if c.PositionChange == diff.AttrDifferent {
		attrs = append(attrs, "position")
	}
	if c.PageChange == diff.AttrDifferent {
		attrs = append(attrs, fmt.Sprintf("page %d -> %d",
			c.Source.PageNumber, c.Target.PageNumber))
	}
	return attrs
}

func labelText(rec *extract.FieldRecord) string {
	if rec.NearText == nil {
		return "(none)"
	}
	return fmt.Sprintf("%q", *rec.NearText)
}

// JSON renders a comparison result as indented JSON.
func JSON(res *diff.ComparisonResult) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}
