// Package pdfdec decodes a PDF file into the docmodel.Document value the
// extraction core consumes. It is the only package in the repository that
// touches raw PDF bytes: pdfcpu supplies the document structure (metadata,
// page tree, AcroForm controls) and ledongthuc/pdf supplies positioned
// page text.
package pdfdec

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/formlens/formdiff/internal/docmodel"
	"github.com/formlens/formdiff/internal/extract"
)

// DefaultMaxFileSize bounds the size of PDFs the decoder will open.
const DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

// Decoder reads PDF files into decoded document values.
type Decoder struct {
	maxFileSize int64
}

// NewDecoder creates a decoder with the given file size limit. A
// non-positive limit falls back to DefaultMaxFileSize.
func NewDecoder(maxFileSize int64) *Decoder {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Decoder{maxFileSize: maxFileSize}
}

// DecodeFile decodes the PDF at path. All failures surface as
// *extract.DecodeError carrying the path; the caller never needs to
// re-parse anything to locate the fault.
func (d *Decoder) DecodeFile(path string) (*docmodel.Document, error) {
	if err := d.validate(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &extract.DecodeError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, &extract.DecodeError{Path: path, Reason: "cannot read PDF structure", Err: err}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &extract.DecodeError{Path: path, Reason: "cannot determine page count", Err: err}
	}

	pageCount := ctx.PageCount
	doc := &docmodel.Document{
		Meta:  d.decodeMetadata(ctx, pageCount),
		Pages: make([]docmodel.Page, pageCount),
	}
	for i := range doc.Pages {
		doc.Pages[i].Number = i + 1
	}

	annotPages, err := annotationPages(ctx)
	if err != nil {
		return nil, &extract.DecodeError{Path: path, Reason: "cannot walk page tree", Err: err}
	}
	if err := d.decodeControls(ctx, annotPages, doc); err != nil {
		return nil, &extract.DecodeError{Path: path, Reason: "cannot decode form controls", Err: err}
	}

	if err := d.decodeTextSpans(path, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// validate performs the basic file checks before any parsing happens.
func (d *Decoder) validate(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &extract.DecodeError{Path: path, Reason: "file does not exist", Err: err}
	}
	if err != nil {
		return &extract.DecodeError{Path: path, Reason: "cannot access file", Err: err}
	}
	if info.IsDir() {
		return &extract.DecodeError{Path: path, Reason: "path is a directory"}
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return &extract.DecodeError{Path: path, Reason: "file is not a PDF"}
	}
	if info.Size() > d.maxFileSize {
		return &extract.DecodeError{
			Path:   path,
			Reason: fmt.Sprintf("file too large: %d bytes (max %d)", info.Size(), d.maxFileSize),
		}
	}
	return nil
}

// decodeMetadata reads the document information dictionary. Missing
// individual attributes stay at their zero values; only the page count is
// mandatory.
func (d *Decoder) decodeMetadata(ctx *model.Context, pageCount int) docmodel.Metadata {
	meta := docmodel.Metadata{PageCount: pageCount}

	if ctx.Info == nil {
		return meta
	}
	infoDict, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || infoDict == nil {
		return meta
	}

	meta.Title = d.infoString(ctx, infoDict, "Title")
	meta.Author = d.infoString(ctx, infoDict, "Author")
	meta.Subject = d.infoString(ctx, infoDict, "Subject")

	if t, ok := d.infoDate(ctx, infoDict, "CreationDate"); ok {
		meta.CreationDate = &t
	}
	if t, ok := d.infoDate(ctx, infoDict, "ModDate"); ok {
		meta.ModificationDate = &t
	}
	return meta
}

func (d *Decoder) infoString(ctx *model.Context, dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return s
}

func (d *Decoder) infoDate(ctx *model.Context, dict types.Dict, key string) (time.Time, bool) {
	s := d.infoString(ctx, dict, key)
	if s == "" {
		return time.Time{}, false
	}
	return types.DateTime(s, true)
}
