package pdfdec

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/formlens/formdiff/internal/docmodel"
	"github.com/formlens/formdiff/internal/extract"
)

// annotationPages walks the page tree and maps every page annotation's
// object number to its 1-indexed page number. AcroForm widgets are page
// annotations, so this map resolves which page a field actually sits on.
func annotationPages(ctx *model.Context) (map[int]int, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	pagesObj, found := rootDict.Find("Pages")
	if !found {
		return nil, fmt.Errorf("catalog has no page tree")
	}

	pages := make(map[int]int)
	pageNr := 0
	if err := walkPageTree(ctx, pagesObj, &pageNr, pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// walkPageTree recurses through Pages nodes in document order. A node
// with Kids is an intermediate node; anything else is a leaf page.
func walkPageTree(ctx *model.Context, obj types.Object, pageNr *int, pages map[int]int) error {
	dict, err := ctx.DereferenceDict(obj)
	if err != nil {
		return fmt.Errorf("page tree node: %w", err)
	}
	if dict == nil {
		return nil
	}

	if kidsObj, found := dict.Find("Kids"); found {
		kids, err := ctx.DereferenceArray(kidsObj)
		if err != nil {
			return fmt.Errorf("page tree kids: %w", err)
		}
		for _, kid := range kids {
			if err := walkPageTree(ctx, kid, pageNr, pages); err != nil {
				return err
			}
		}
		return nil
	}

	*pageNr++
	annotsObj, found := dict.Find("Annots")
	if !found {
		return nil
	}
	annots, err := ctx.DereferenceArray(annotsObj)
	if err != nil {
		return nil // unreadable annotation array, page still counts
	}
	for _, annot := range annots {
		if ref, ok := annot.(types.IndirectRef); ok {
			pages[int(ref.ObjectNumber)] = *pageNr
		}
	}
	return nil
}

// decodeControls walks the AcroForm field hierarchy and appends one
// control per terminal field to the page it renders on, in the order the
// document declares the fields. A document without an AcroForm simply
// yields no controls; the extraction layer reports that state.
func (d *Decoder) decodeControls(ctx *model.Context, annotPages map[int]int, doc *docmodel.Document) error {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return fmt.Errorf("AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return fmt.Errorf("AcroForm fields: %w", err)
	}

	for _, fieldRef := range fieldsArray {
		d.walkField(ctx, fieldRef, "", annotPages, doc)
	}
	return nil
}

// walkField descends one field node. Intermediate nodes (kids that carry
// their own partial name) contribute a name segment; terminal fields
// become controls. A node that cannot be dereferenced is skipped, not
// fatal: one broken field must not abort the whole extraction.
func (d *Decoder) walkField(
	ctx *model.Context,
	fieldObj types.Object,
	parentName string,
	annotPages map[int]int,
	doc *docmodel.Document,
) {
	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil || fieldDict == nil {
		return
	}

	name := qualifiedName(ctx, fieldDict, parentName)

	if kidsObj, found := fieldDict.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil && hasFieldKids(ctx, kids) {
			for _, kid := range kids {
				d.walkField(ctx, kid, name, annotPages, doc)
			}
			return
		}
	}

	d.emitControl(ctx, fieldObj, fieldDict, name, annotPages, doc)
}

// qualifiedName appends this node's partial name (T) to the parent chain,
// mirroring PDF fully qualified field names.
func qualifiedName(ctx *model.Context, fieldDict types.Dict, parentName string) string {
	partial := ""
	if nameObj, found := fieldDict.Find("T"); found {
		if n, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			partial = n
		}
	}
	switch {
	case parentName == "":
		return partial
	case partial == "":
		return parentName
	default:
		return parentName + "." + partial
	}
}

// hasFieldKids reports whether any kid carries its own partial name,
// which makes the kids fields rather than bare widget annotations.
func hasFieldKids(ctx *model.Context, kids types.Array) bool {
	for _, kid := range kids {
		kidDict, err := ctx.DereferenceDict(kid)
		if err != nil || kidDict == nil {
			continue
		}
		if _, found := kidDict.Find("T"); found {
			return true
		}
	}
	return false
}

// emitControl assembles the control for one terminal field and appends it
// to the page its widget annotation belongs to. Fields whose page cannot
// be resolved land on page 1 rather than being dropped.
func (d *Decoder) emitControl(
	ctx *model.Context,
	fieldObj types.Object,
	fieldDict types.Dict,
	name string,
	annotPages map[int]int,
	doc *docmodel.Document,
) {
	if len(doc.Pages) == 0 {
		return
	}

	ctrl := docmodel.Control{
		ID:   name,
		Kind: nativeKind(ctx, fieldDict),
	}
	ctrl.Options = fieldOptions(ctx, fieldDict)

	rect, pageNr := widgetRectAndPage(ctx, fieldObj, fieldDict, annotPages)
	ctrl.Rect = rect
	if pageNr < 1 || pageNr > len(doc.Pages) {
		pageNr = 1
	}

	page := &doc.Pages[pageNr-1]
	page.Controls = append(page.Controls, ctrl)
}

// nativeKind derives the native control kind string from the field's FT
// entry, refined by the field-flag bits that distinguish the ambiguous
// base types. FT is inherited from the parent when absent.
func nativeKind(ctx *model.Context, fieldDict types.Dict) string {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return nativeKind(ctx, parentDict)
			}
		}
		return ""
	}
	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return ""
	}

	flags := fieldFlags(ctx, fieldDict)
	switch ftName {
	case "Tx":
		if flags&(1<<12) != 0 { // bit 13: multiline
			return extract.KindMultiline
		}
		return extract.KindText
	case "Btn":
		switch {
		case flags&(1<<15) != 0: // bit 16: radio
			return extract.KindRadio
		case flags&(1<<16) != 0: // bit 17: pushbutton
			return extract.KindPush
		default:
			return extract.KindCheckbox
		}
	case "Ch":
		if flags&(1<<17) != 0 { // bit 18: combo
			return extract.KindCombo
		}
		return extract.KindList
	case "Sig":
		return extract.KindSignature
	default:
		return string(ftName)
	}
}

func fieldFlags(ctx *model.Context, fieldDict types.Dict) int {
	flagsObj, found := fieldDict.Find("Ff")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return fieldFlags(ctx, parentDict)
			}
		}
		return 0
	}
	flags, err := ctx.DereferenceInteger(flagsObj)
	if err != nil || flags == nil {
		return 0
	}
	return int(*flags)
}

// fieldOptions extracts the declared option list (Opt). Entries can be
// plain strings or [export, display] pairs; the display value wins.
// Order is preserved and duplicates are kept, both being authoring facts.
func fieldOptions(ctx *model.Context, fieldDict types.Dict) []string {
	optObj, found := fieldDict.Find("Opt")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return fieldOptions(ctx, parentDict)
			}
		}
		return nil
	}
	optArray, err := ctx.DereferenceArray(optObj)
	if err != nil {
		return nil
	}

	options := make([]string, 0, len(optArray))
	for _, opt := range optArray {
		if s, err := ctx.DereferenceStringOrHexLiteral(opt, model.V10, nil); err == nil {
			options = append(options, s)
		} else if pair, err := ctx.DereferenceArray(opt); err == nil && len(pair) >= 2 {
			if display, err := ctx.DereferenceStringOrHexLiteral(pair[1], model.V10, nil); err == nil {
				options = append(options, display)
			}
		}
	}
	return options
}

// widgetRectAndPage finds the field's widget rectangle and the page it is
// annotated on. Merged widgets carry Rect on the field dict itself;
// otherwise the first widget kid is used. A missing or malformed Rect
// yields nil, which the extraction layer reports as a diagnostic.
func widgetRectAndPage(
	ctx *model.Context,
	fieldObj types.Object,
	fieldDict types.Dict,
	annotPages map[int]int,
) (*docmodel.Rect, int) {
	if rectObj, found := fieldDict.Find("Rect"); found {
		return parseRect(ctx, rectObj), refPage(fieldObj, annotPages)
	}

	if kidsObj, found := fieldDict.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil && len(kids) > 0 {
			if widgetDict, err := ctx.DereferenceDict(kids[0]); err == nil && widgetDict != nil {
				if rectObj, found := widgetDict.Find("Rect"); found {
					return parseRect(ctx, rectObj), refPage(kids[0], annotPages)
				}
			}
		}
	}
	return nil, 0
}

func parseRect(ctx *model.Context, rectObj types.Object) *docmodel.Rect {
	rectArray, err := ctx.DereferenceArray(rectObj)
	if err != nil || len(rectArray) != 4 {
		return nil
	}
	coords := make([]float64, 4)
	for i, coord := range rectArray {
		f, err := ctx.DereferenceNumber(coord)
		if err != nil {
			return nil
		}
		coords[i] = f
	}
	r := docmodel.NewRect(coords[0], coords[1], coords[2], coords[3])
	return &r
}

func refPage(obj types.Object, annotPages map[int]int) int {
	ref, ok := obj.(types.IndirectRef)
	if !ok {
		return 0
	}
	return annotPages[int(ref.ObjectNumber)]
}
