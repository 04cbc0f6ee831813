package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		expected FieldType
	}{
		{name: "text", kind: KindText, expected: FieldTypeText},
		{name: "multiline_text", kind: KindMultiline, expected: FieldTypeTextarea},
		{name: "checkbox", kind: KindCheckbox, expected: FieldTypeCheckbox},
		{name: "radio", kind: KindRadio, expected: FieldTypeRadio},
		{name: "pushbutton", kind: KindPush, expected: FieldTypeButton},
		{name: "combo_box", kind: KindCombo, expected: FieldTypeSelect},
		{name: "list_box", kind: KindList, expected: FieldTypeSelect},
		{name: "signature", kind: KindSignature, expected: FieldTypeSignature},

		// Kinds outside the fixed table bucket by name and are never
		// dropped.
		{name: "unknown_text_like", kind: "TextInput", expected: FieldTypeText},
		{name: "unknown_radio_like", kind: "RadioGroup", expected: FieldTypeRadio},
		{name: "unknown_check_like", kind: "CheckMark", expected: FieldTypeCheckbox},
		{name: "unknown_choice_like", kind: "DropdownList", expected: FieldTypeSelect},
		{name: "unknown_ink_like", kind: "InkAnnotation", expected: FieldTypeSignature},
		{name: "unknown_falls_back_to_button", kind: "Widget", expected: FieldTypeButton},
		{name: "empty_kind_falls_back_to_button", kind: "", expected: FieldTypeButton},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKind(tt.kind))
		})
	}
}
