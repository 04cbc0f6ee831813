package pdfdec

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(s string, x, y, w, size float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: size}
}

func TestBuildSpans_MergesRunsOnSameBaseline(t *testing.T) {
	texts := []pdf.Text{
		run("Full", 20, 700, 24, 12),
		run(" ", 44, 700, 4, 12),
		run("name", 48, 700, 30, 12),
	}

	spans := buildSpans(texts)
	require.Len(t, spans, 1)
	assert.Equal(t, "Full name", spans[0].Text)
	assert.Equal(t, 20.0, spans[0].Rect.X0)
	assert.Equal(t, 78.0, spans[0].Rect.X1)
	assert.Equal(t, 700.0, spans[0].Rect.Y0)
	assert.Equal(t, 712.0, spans[0].Rect.Y1)
}

func TestBuildSpans_SplitsOnBaselineChange(t *testing.T) {
	texts := []pdf.Text{
		run("Line one", 20, 700, 50, 12),
		run("Line two", 20, 680, 50, 12),
	}

	spans := buildSpans(texts)
	require.Len(t, spans, 2)
	assert.Equal(t, "Line one", spans[0].Text)
	assert.Equal(t, "Line two", spans[1].Text)
}

func TestBuildSpans_SplitsOnWideHorizontalGap(t *testing.T) {
	// Two labels on the same line separated by a form field's worth of
	// space must stay separate spans, or the label heuristic would see
	// one giant caption.
	texts := []pdf.Text{
		run("Name", 20, 700, 30, 12),
		run("Date", 300, 700, 28, 12),
	}

	spans := buildSpans(texts)
	require.Len(t, spans, 2)
	assert.Equal(t, "Name", spans[0].Text)
	assert.Equal(t, "Date", spans[1].Text)
}

func TestBuildSpans_SkipsWhitespaceOnlyContent(t *testing.T) {
	texts := []pdf.Text{
		run("  ", 20, 700, 10, 12),
		run("", 40, 700, 0, 12),
	}

	assert.Empty(t, buildSpans(texts))
}

func TestBuildSpans_DefaultsHeightWhenFontSizeMissing(t *testing.T) {
	texts := []pdf.Text{
		run("X", 20, 700, 8, 0),
	}

	spans := buildSpans(texts)
	require.Len(t, spans, 1)
	assert.Equal(t, 700.0+defaultGlyphHeight, spans[0].Rect.Y1)
}

func TestBuildSpans_PreservesEmissionOrder(t *testing.T) {
	texts := []pdf.Text{
		run("Second on page, first emitted", 20, 100, 100, 12),
		run("First on page, second emitted", 20, 700, 100, 12),
	}

	spans := buildSpans(texts)
	require.Len(t, spans, 2)
	assert.Equal(t, "Second on page, first emitted", spans[0].Text)
	assert.Equal(t, "First on page, second emitted", spans[1].Text)
}
