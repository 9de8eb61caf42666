package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GechKibr/cmfs-feedback-server/models"
)

func TestBuildFieldRowsPositions(t *testing.T) {
	rows, err := buildFieldRows([]fieldReq{
		{Label: "Rate us", FieldType: "rating", Required: true},
		{Label: "Comments", FieldType: "text"},
		{Label: "Channel", FieldType: "choice", Options: []string{"Web", "Phone"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// positions are contiguous from 0
	for i, row := range rows {
		assert.Equal(t, i, row.Position)
	}
	assert.Equal(t, models.FieldRating, rows[0].FieldType)
	assert.True(t, rows[0].Required)
	assert.Equal(t, []string{"Web", "Phone"}, rows[2].OptionValues())
}

func TestBuildFieldRowsNormalizesType(t *testing.T) {
	rows, err := buildFieldRows([]fieldReq{
		{Label: "Rate us", FieldType: " Rating "},
	})
	require.NoError(t, err)
	assert.Equal(t, models.FieldRating, rows[0].FieldType)
}

func TestBuildFieldRowsRejectsUnknownType(t *testing.T) {
	_, err := buildFieldRows([]fieldReq{
		{Label: "Upload", FieldType: "upload_file"},
	})
	assert.Error(t, err)
}

func TestBuildFieldRowsPlaceholderOption(t *testing.T) {
	// choice/checkbox without options defaults to one placeholder instead
	// of failing the save
	rows, err := buildFieldRows([]fieldReq{
		{Label: "Pick one", FieldType: "choice"},
		{Label: "Pick many", FieldType: "checkbox", Options: []string{"", "  "}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Option 1"}, rows[0].OptionValues())
	assert.Equal(t, []string{"Option 1"}, rows[1].OptionValues())
}

func TestBuildFieldRowsIgnoresOptionsForPlainTypes(t *testing.T) {
	rows, err := buildFieldRows([]fieldReq{
		{Label: "Comments", FieldType: "text", Options: []string{"ignored"}},
	})
	require.NoError(t, err)
	assert.Empty(t, rows[0].Options)
}

func TestMoveTarget(t *testing.T) {
	// middle field moves both ways
	target, ok := moveTarget(1, "up", 3)
	assert.True(t, ok)
	assert.Equal(t, 0, target)

	target, ok = moveTarget(1, "down", 3)
	assert.True(t, ok)
	assert.Equal(t, 2, target)

	// boundary moves are no-ops
	_, ok = moveTarget(0, "up", 3)
	assert.False(t, ok)
	_, ok = moveTarget(2, "down", 3)
	assert.False(t, ok)

	_, ok = moveTarget(0, "sideways", 3)
	assert.False(t, ok)
}

func TestExportRows(t *testing.T) {
	fields := []models.TemplateField{
		{ID: 1, Label: "Rate us", FieldType: models.FieldRating, Position: 0},
		{ID: 2, Label: "Comments", FieldType: models.FieldText, Position: 1},
	}
	submitted := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	responses := []models.FeedbackResponse{
		{
			ID:          7,
			Email:       strPtr("a@example.com"),
			SubmittedAt: submitted,
			Answers: []models.FieldAnswer{
				{FieldID: 1, RatingValue: intPtr(5)},
				{FieldID: 2, TextValue: strPtr("great")},
			},
		},
		{
			ID:          8,
			SubmittedAt: submitted,
			Answers: []models.FieldAnswer{
				{FieldID: 1, RatingValue: intPtr(3)},
			},
		},
	}

	rows := exportRows(fields, responses)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"response_id", "email", "submitted_at", "Rate us", "Comments"}, rows[0])
	assert.Equal(t, []string{"7", "a@example.com", "2026-08-20T09:30:00Z", "5", "great"}, rows[1])
	// unanswered optional field exports as an empty cell
	assert.Equal(t, []string{"8", "", "2026-08-20T09:30:00Z", "3", ""}, rows[2])
}

func TestAnswerDisplay(t *testing.T) {
	assert.Equal(t, "hello", answerDisplay(models.FieldAnswer{TextValue: strPtr("hello")}))
	assert.Equal(t, "2.5", answerDisplay(models.FieldAnswer{NumberValue: floatPtr(2.5)}))
	assert.Equal(t, "4", answerDisplay(models.FieldAnswer{RatingValue: intPtr(4)}))
	assert.Equal(t, "Yes", answerDisplay(models.FieldAnswer{ChoiceValue: strPtr("Yes")}))
	assert.Equal(t, "A; B", answerDisplay(models.FieldAnswer{CheckboxJSON: `["A","B"]`}))
	assert.Equal(t, "", answerDisplay(models.FieldAnswer{}))
}
