package pdfdec

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/formlens/formdiff/internal/docmodel"
	"github.com/formlens/formdiff/internal/extract"
)

const (
	// defaultGlyphHeight approximates text height when the font size is
	// unknown; ledongthuc/pdf does not report glyph heights.
	defaultGlyphHeight = 12.0

	// lineTolerance is the maximum baseline difference, in coordinate
	// units, for two runs to count as the same line.
	lineTolerance = 0.5
)

// decodeTextSpans fills each page's Spans using positioned text from
// ledongthuc/pdf. The file is opened a second time here: the two decoding
// libraries do not share a parse context.
func (d *Decoder) decodeTextSpans(path string, doc *docmodel.Document) error {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return &extract.DecodeError{Path: path, Reason: "cannot read page text", Err: err}
	}
	defer f.Close()

	numPages := reader.NumPage()
	for i := range doc.Pages {
		pageNum := doc.Pages[i].Number
		if pageNum > numPages {
			break
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		doc.Pages[i].Spans = buildSpans(page.Content().Text)
	}
	return nil
}

// buildSpans groups the decoder's per-run text fragments into spans:
// consecutive runs on the same baseline with no significant horizontal
// gap merge into one span. Emission order of the input is preserved, so
// span order remains the decoder's document order.
func buildSpans(texts []pdf.Text) []docmodel.TextSpan {
	var spans []docmodel.TextSpan
	var cur *spanBuilder

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if cur != nil && cur.accepts(t) {
			cur.add(t)
			continue
		}
		if cur != nil {
			spans = appendSpan(spans, cur)
		}
		cur = newSpanBuilder(t)
	}
	if cur != nil {
		spans = appendSpan(spans, cur)
	}
	return spans
}

func appendSpan(spans []docmodel.TextSpan, b *spanBuilder) []docmodel.TextSpan {
	span := b.span()
	if strings.TrimSpace(span.Text) == "" {
		return spans
	}
	return append(spans, span)
}

type spanBuilder struct {
	text     strings.Builder
	rect     docmodel.Rect
	baseline float64
	endX     float64
	fontSize float64
}

func newSpanBuilder(t pdf.Text) *spanBuilder {
	h := glyphHeight(t)
	b := &spanBuilder{
		rect:     docmodel.NewRect(t.X, t.Y, t.X+t.W, t.Y+h),
		baseline: t.Y,
		endX:     t.X + t.W,
		fontSize: h,
	}
	b.text.WriteString(t.S)
	return b
}

// accepts reports whether the run continues the current span: same
// baseline and a horizontal gap below roughly one glyph width.
func (b *spanBuilder) accepts(t pdf.Text) bool {
	if math.Abs(t.Y-b.baseline) > lineTolerance {
		return false
	}
	gap := t.X - b.endX
	return gap >= -lineTolerance && gap <= b.fontSize*0.75
}

func (b *spanBuilder) add(t pdf.Text) {
	h := glyphHeight(t)
	b.text.WriteString(t.S)
	b.endX = t.X + t.W
	b.rect = docmodel.NewRect(
		math.Min(b.rect.X0, t.X),
		math.Min(b.rect.Y0, t.Y),
		math.Max(b.rect.X1, t.X+t.W),
		math.Max(b.rect.Y1, t.Y+h),
	)
	if h > b.fontSize {
		b.fontSize = h
	}
}

func (b *spanBuilder) span() docmodel.TextSpan {
	return docmodel.TextSpan{Text: b.text.String(), Rect: b.rect}
}

func glyphHeight(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return defaultGlyphHeight
}
