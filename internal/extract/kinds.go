package extract

import "strings"

// Native control kinds as emitted by the decoder adapter. The names
// follow the AcroForm FT values, refined by field-flag bits where the
// base type is ambiguous (see internal/pdfdec).
const (
	KindText      = "Tx"
	KindMultiline = "Tx/multiline"
	KindCheckbox  = "Btn/checkbox"
	KindRadio     = "Btn/radio"
	KindPush      = "Btn/push"
	KindCombo     = "Ch/combo"
	KindList      = "Ch/list"
	KindSignature = "Sig"
)

// kindTable is the fixed mapping from native control kinds to normalized
// field types.
var kindTable = map[string]FieldType{
	KindText:      FieldTypeText,
	KindMultiline: FieldTypeTextarea,
	KindCheckbox:  FieldTypeCheckbox,
	KindRadio:     FieldTypeRadio,
	KindPush:      FieldTypeButton,
	KindCombo:     FieldTypeSelect,
	KindList:      FieldTypeSelect,
	KindSignature: FieldTypeSignature,
}

// NormalizeKind maps a native control kind to its normalized field type.
// Kinds outside the fixed table are bucketed into the closest semantic
// type by name so that no control is ever dropped; anything without a
// recognizable shape falls back to button.
func NormalizeKind(kind string) FieldType {
	if t, ok := kindTable[kind]; ok {
		return t
	}

	k := strings.ToLower(kind)
	switch {
	case strings.Contains(k, "multiline") || strings.Contains(k, "textarea"):
		return FieldTypeTextarea
	case strings.Contains(k, "tx") || strings.Contains(k, "text"):
		return FieldTypeText
	case strings.Contains(k, "radio"):
		return FieldTypeRadio
	case strings.Contains(k, "check"):
		return FieldTypeCheckbox
	case strings.Contains(k, "combo") || strings.Contains(k, "list") ||
		strings.Contains(k, "choice") || strings.Contains(k, "select") ||
		strings.Contains(k, "ch"):
		return FieldTypeSelect
	case strings.Contains(k, "sig") || strings.Contains(k, "ink") ||
		strings.Contains(k, "draw"):
		return FieldTypeSignature
	default:
		return FieldTypeButton
	}
}

// isChoice reports whether a field type carries a declared option list.
func isChoice(t FieldType) bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}
