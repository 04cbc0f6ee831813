// Package docmodel defines the decoded-document value types consumed by
// the extraction core. A Document is produced by a decoder adapter (see
// internal/pdfdec) and is treated as immutable input everywhere else.
package docmodel

import "time"

// TextSpan is a piece of page text with its bounding box, as emitted by
// the page-text layer of the decoder. Spans keep their decoder emission
// order; the extraction heuristics rely on that order for tie-breaking.
type TextSpan struct {
	Text string `json:"text"`
	Rect Rect   `json:"rect"`
}

// Control is one interactive form control as the decoder saw it. Kind is
// the native control kind string (e.g. "Tx", "Btn/radio"); normalization
// into semantic field types happens in the extraction layer, not here.
type Control struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Rect    *Rect    `json:"rect,omitempty"` // nil when the widget rectangle is missing or malformed
	Options []string `json:"options,omitempty"`
}

// Page holds one page's text spans and form controls, both in decoder
// emission order.
type Page struct {
	Number   int        `json:"number"` // 1-indexed
	Spans    []TextSpan `json:"spans,omitempty"`
	Controls []Control  `json:"controls,omitempty"`
}

// Metadata contains document-level metadata. Individual fields may be
// empty or nil when the document does not declare them; PageCount is
// always set and equals the number of pages the decoder iterated.
type Metadata struct {
	Title            string     `json:"title,omitempty"`
	Author           string     `json:"author,omitempty"`
	Subject          string     `json:"subject,omitempty"`
	CreationDate     *time.Time `json:"creation_date,omitempty"`
	ModificationDate *time.Time `json:"modification_date,omitempty"`
	PageCount        int        `json:"page_count"`
}

// Document is a fully decoded document: metadata plus pages in document
// order.
type Document struct {
	Meta  Metadata `json:"meta"`
	Pages []Page   `json:"pages"`
}
