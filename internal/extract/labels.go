package extract

import (
	"math"

	"github.com/formlens/formdiff/internal/docmodel"
)

// sameLineBand is the vertical tolerance for same-line label candidates,
// expressed in control heights: a span qualifies when its vertical center
// is within one control height of the control's vertical center.
const sameLineBand = 1.0

// labelCandidate scores one text span against a control. Lower primary
// distance wins; ties fall through to center distance, then to the span's
// original document order so that results are deterministic.
type labelCandidate struct {
	index    int
	distance float64
	center   float64
}

func (c labelCandidate) betterThan(other labelCandidate) bool {
	if c.distance != other.distance {
		return c.distance < other.distance
	}
	if c.center != other.center {
		return c.center < other.center
	}
	return c.index < other.index
}

// nearestLabel selects the text span that most plausibly captions the
// control, searching only the control's own page.
//
// Same-line spans are preferred: vertical center within one control
// height of the control's center, positioned to the left of or overlapping
// the control horizontally, ranked by horizontal gap. When no span
// qualifies, the nearest span strictly above the control (smallest
// vertical gap) is chosen. With no candidate in either band the control
// has no label.
func nearestLabel(ctrl docmodel.Rect, spans []docmodel.TextSpan) *string {
	ctrlCenter := ctrl.Center()
	band := ctrl.Height() * sameLineBand

	var best *labelCandidate
	pick := func(c labelCandidate) {
		if best == nil || c.betterThan(*best) {
			best = &c
		}
	}

	// Pass 1: same-line spans left of or overlapping the control.
	for i, span := range spans {
		spanCenter := span.Rect.Center()
		if math.Abs(spanCenter.Y-ctrlCenter.Y) > band {
			continue
		}
		if span.Rect.X0 > ctrl.X1 {
			continue // entirely to the right of the control
		}
		gap := ctrl.X0 - span.Rect.X1
		if gap < 0 {
			gap = 0 // overlapping counts as zero gap
		}
		pick(labelCandidate{
			index:    i,
			distance: gap,
			center:   spanCenter.Distance(ctrlCenter),
		})
	}

	// Pass 2: nearest span strictly above the control.
	if best == nil {
		for i, span := range spans {
			if span.Rect.Y0 < ctrl.Y1 {
				continue // not strictly above (Y grows upward)
			}
			pick(labelCandidate{
				index:    i,
				distance: span.Rect.Y0 - ctrl.Y1,
				center:   span.Rect.Center().Distance(ctrlCenter),
			})
		}
	}

	if best == nil {
		return nil
	}
	text := spans[best.index].Text
	return &text
}
