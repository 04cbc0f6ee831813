package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/formlens/formdiff/internal/diff"
	"github.com/formlens/formdiff/internal/extract"
)

const (
	summarySheet = "Summary"
	changesSheet = "Field Changes"
)

// XLSX renders a comparison result as an XLSX workbook and returns its
// bytes. The workbook has a Summary sheet with the global metrics and a
// Field Changes sheet with one row per field identity, in the result's
// documented order so that consumers can filter by status.
func XLSX(res *diff.ComparisonResult, sourceName, targetName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, res, sourceName, targetName); err != nil {
		return nil, err
	}
	if err := writeChangesSheet(f, res); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by Summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex(summarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, res *diff.ComparisonResult, sourceName, targetName string) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	m := res.GlobalMetrics
	rows := [][]interface{}{
		{"Metric", "Source", "Target", "Equal"},
		{"Document", sourceName, targetName, ""},
		{"Pages", m.PageCount.Source, m.PageCount.Target, m.PageCount.Equal},
		{"Fields", m.FieldCount.Source, m.FieldCount.Target, m.FieldCount.Equal},
		{"Title", m.Metadata.Title.Source, m.Metadata.Title.Target, m.Metadata.Title.Equal},
		{"Author", m.Metadata.Author.Source, m.Metadata.Author.Target, m.Metadata.Author.Equal},
		{"Subject", m.Metadata.Subject.Source, m.Metadata.Subject.Target, m.Metadata.Subject.Equal},
		{"Created", timeCell(m.Metadata.CreationDate.Source), timeCell(m.Metadata.CreationDate.Target), m.Metadata.CreationDate.Equal},
		{"Modified", timeCell(m.Metadata.ModificationDate.Source), timeCell(m.Metadata.ModificationDate.Target), m.Metadata.ModificationDate.Equal},
		{"Modification %", m.ModificationPercentage, "", ""},
	}
	return writeRows(f, summarySheet, rows)
}

func writeChangesSheet(f *excelize.File, res *diff.ComparisonResult) error {
	if _, err := f.NewSheet(changesSheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Status", "Field ID", "Type", "Page", "Label", "Options", "Label Changed", "Options Changed", "Position Changed", "Page Changed"},
	}
	for _, c := range res.FieldChanges {
		rec := c.Source
		if rec == nil {
			rec = c.Target
		}
		rows = append(rows, []interface{}{
			string(c.Status),
			c.FieldID,
			string(rec.Type),
			rec.PageNumber,
			labelCell(rec),
			fmt.Sprintf("%v", rec.ValueOptions),
			flagCell(c.NearTextDiff),
			flagCell(c.ValueOptionsDiff),
			flagCell(c.PositionChange),
			flagCell(c.PageChange),
		})
	}
	return writeRows(f, changesSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func labelCell(rec *extract.FieldRecord) string {
	if rec.NearText == nil {
		return ""
	}
	return *rec.NearText
}

func flagCell(flag diff.AttributeFlag) string {
	return string(flag)
}

func timeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
