package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidFieldType(t *testing.T) {
	for _, ft := range []string{FieldText, FieldNumber, FieldRating, FieldChoice, FieldCheckbox} {
		assert.True(t, ValidFieldType(ft), ft)
	}
	assert.False(t, ValidFieldType("upload_file"))
	assert.False(t, ValidFieldType(""))
}

func TestFieldTypeHasOptions(t *testing.T) {
	assert.True(t, FieldTypeHasOptions(FieldChoice))
	assert.True(t, FieldTypeHasOptions(FieldCheckbox))
	assert.False(t, FieldTypeHasOptions(FieldText))
	assert.False(t, FieldTypeHasOptions(FieldRating))
}

func TestCheckboxValues(t *testing.T) {
	a := FieldAnswer{CheckboxJSON: `["A","B"]`}
	assert.Equal(t, []string{"A", "B"}, a.CheckboxValues())

	assert.Nil(t, FieldAnswer{}.CheckboxValues())
	assert.Nil(t, FieldAnswer{CheckboxJSON: "not json"}.CheckboxValues())
}

func TestHasValue(t *testing.T) {
	s := "x"
	assert.True(t, FieldAnswer{TextValue: &s}.HasValue())
	assert.False(t, FieldAnswer{}.HasValue())
}

func TestAcceptsResponses(t *testing.T) {
	assert.True(t, FeedbackTemplate{Status: StatusActive}.AcceptsResponses())
	assert.False(t, FeedbackTemplate{Status: StatusDraft}.AcceptsResponses())
	assert.False(t, FeedbackTemplate{Status: StatusClosed}.AcceptsResponses())
}

func TestIsStaff(t *testing.T) {
	assert.True(t, User{Role: RoleOfficer}.IsStaff())
	assert.True(t, User{Role: RoleAdmin}.IsStaff())
	assert.False(t, User{Role: RoleUser}.IsStaff())
}
