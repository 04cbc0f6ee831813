package extract

import "fmt"

// DecodeError indicates the decoded document is unusable: the decode
// failed outright or produced an internally inconsistent result. Fatal;
// nothing is extracted.
type DecodeError struct {
	Path   string // source path when known, may be empty
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decode %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("decode: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NoFormFieldsError reports a valid document with zero form controls.
// It is a reportable empty-result state, not a failure: the returned
// Result still carries valid metadata, and callers that treat an empty
// form as acceptable can check for this type and continue.
type NoFormFieldsError struct {
	PageCount int
}

func (e *NoFormFieldsError) Error() string {
	return fmt.Sprintf("document contains no form fields (%d pages scanned)", e.PageCount)
}

// DuplicateFieldIDError indicates a field identifier appeared more than
// once where uniqueness is required. Within one extraction the decoder's
// fully qualified names are expected to be unique; a duplicate breaks the
// identity invariant the diff engine depends on.
type DuplicateFieldIDError struct {
	FieldID    string
	PageNumber int
}

func (e *DuplicateFieldIDError) Error() string {
	return fmt.Sprintf("duplicate field id %q (page %d)", e.FieldID, e.PageNumber)
}
