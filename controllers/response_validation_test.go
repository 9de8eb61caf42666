package controllers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GechKibr/cmfs-feedback-server/models"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func choiceField(id uint, required bool, options ...string) models.TemplateField {
	f := models.TemplateField{ID: id, FieldType: models.FieldChoice, Required: required}
	for i, o := range options {
		f.Options = append(f.Options, models.FieldOption{Value: o, Position: i})
	}
	return f
}

func checkboxField(id uint, required bool, options ...string) models.TemplateField {
	f := choiceField(id, required, options...)
	f.FieldType = models.FieldCheckbox
	return f
}

func TestValidateAnswerText(t *testing.T) {
	field := models.TemplateField{ID: 1, FieldType: models.FieldText, Required: true}

	row, err := validateAnswer(field, answerReq{FieldID: 1, TextValue: strPtr("all good")})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "all good", *row.TextValue)

	// whitespace-only fails the required check
	_, err = validateAnswer(field, answerReq{FieldID: 1, TextValue: strPtr("   ")})
	assert.Error(t, err)

	_, err = validateAnswer(field, answerReq{FieldID: 1})
	assert.Error(t, err)

	// optional text may be omitted
	field.Required = false
	row, err = validateAnswer(field, answerReq{FieldID: 1})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestValidateAnswerNumber(t *testing.T) {
	field := models.TemplateField{ID: 2, FieldType: models.FieldNumber, Required: true}

	row, err := validateAnswer(field, answerReq{FieldID: 2, NumberValue: floatPtr(3.5)})
	require.NoError(t, err)
	assert.Equal(t, 3.5, *row.NumberValue)

	_, err = validateAnswer(field, answerReq{FieldID: 2, NumberValue: floatPtr(math.NaN())})
	assert.Error(t, err)

	_, err = validateAnswer(field, answerReq{FieldID: 2, NumberValue: floatPtr(math.Inf(1))})
	assert.Error(t, err)
}

func TestValidateAnswerRatingBounds(t *testing.T) {
	field := models.TemplateField{ID: 3, FieldType: models.FieldRating, Required: true}

	for _, v := range []int{1, 3, 5} {
		row, err := validateAnswer(field, answerReq{FieldID: 3, RatingValue: intPtr(v)})
		require.NoError(t, err)
		assert.Equal(t, v, *row.RatingValue)
	}
	for _, v := range []int{0, 6, -1} {
		_, err := validateAnswer(field, answerReq{FieldID: 3, RatingValue: intPtr(v)})
		assert.Error(t, err, "rating %d should be rejected", v)
	}
}

func TestValidateAnswerChoice(t *testing.T) {
	field := choiceField(4, true, "Yes", "No")

	row, err := validateAnswer(field, answerReq{FieldID: 4, ChoiceValue: strPtr("Yes")})
	require.NoError(t, err)
	assert.Equal(t, "Yes", *row.ChoiceValue)

	_, err = validateAnswer(field, answerReq{FieldID: 4, ChoiceValue: strPtr("Maybe")})
	assert.Error(t, err)
}

func TestValidateAnswerCheckbox(t *testing.T) {
	field := checkboxField(5, true, "A", "B", "C")

	row, err := validateAnswer(field, answerReq{FieldID: 5, CheckboxValues: []string{"A", "C"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, row.CheckboxValues())

	_, err = validateAnswer(field, answerReq{FieldID: 5, CheckboxValues: []string{"A", "Z"}})
	assert.Error(t, err)

	_, err = validateAnswer(field, answerReq{FieldID: 5, CheckboxValues: []string{"A", "A"}})
	assert.Error(t, err)

	_, err = validateAnswer(field, answerReq{FieldID: 5})
	assert.Error(t, err)
}

func TestValidateAnswerKindMismatch(t *testing.T) {
	field := models.TemplateField{ID: 6, FieldType: models.FieldRating, Required: true}

	// wrong union arm for the field type
	_, err := validateAnswer(field, answerReq{FieldID: 6, TextValue: strPtr("five")})
	assert.Error(t, err)

	// more than one arm at once
	_, err = validateAnswer(field, answerReq{FieldID: 6, RatingValue: intPtr(5), TextValue: strPtr("five")})
	assert.Error(t, err)
}

func TestValidateAnswerSetRequiredEnforcement(t *testing.T) {
	fields := []models.TemplateField{
		{ID: 1, FieldType: models.FieldRating, Required: true, Position: 0},
		{ID: 2, FieldType: models.FieldText, Required: false, Position: 1},
	}

	// required satisfied, optional omitted: accepted
	rows, err := validateAnswerSet(fields, []answerReq{
		{FieldID: 1, RatingValue: intPtr(4)},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].FieldID)

	// required field entirely missing from the set: rejected
	_, err = validateAnswerSet(fields, []answerReq{
		{FieldID: 2, TextValue: strPtr("nice")},
	})
	assert.Error(t, err)
}

func TestValidateAnswerSetUnknownAndDuplicateFields(t *testing.T) {
	fields := []models.TemplateField{
		{ID: 1, FieldType: models.FieldText, Required: false},
	}

	_, err := validateAnswerSet(fields, []answerReq{
		{FieldID: 99, TextValue: strPtr("who dis")},
	})
	assert.Error(t, err)

	_, err = validateAnswerSet(fields, []answerReq{
		{FieldID: 1, TextValue: strPtr("a")},
		{FieldID: 1, TextValue: strPtr("b")},
	})
	assert.Error(t, err)
}
