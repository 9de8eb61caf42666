package controllers

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GechKibr/cmfs-feedback-server/models"
)

func ratingAnswers(values ...int) []models.FieldAnswer {
	answers := make([]models.FieldAnswer, 0, len(values))
	for _, v := range values {
		v := v
		answers = append(answers, models.FieldAnswer{RatingValue: &v})
	}
	return answers
}

func TestSummarizeRatingAverage(t *testing.T) {
	s := summarizeRating(ratingAnswers(5, 4, 3))

	assert.Equal(t, 4.0, s["average"])
	assert.Equal(t, 3, s["count"])
}

func TestSummarizeRatingEmpty(t *testing.T) {
	s := summarizeRating(nil)

	assert.Equal(t, 0.0, s["average"])
	assert.Equal(t, 0, s["count"])
	assert.Empty(t, s["histogram"])
}

func TestSummarizeRatingHistogram(t *testing.T) {
	s := summarizeRating(ratingAnswers(5, 5, 1))

	buckets := s["histogram"].([]gin.H)
	require.Len(t, buckets, 2)
	// ascending rating order, values never given get no bucket
	assert.Equal(t, gin.H{"rating": 1, "count": 1}, buckets[0])
	assert.Equal(t, gin.H{"rating": 5, "count": 2}, buckets[1])
}

func TestSummarizeChoiceBuckets(t *testing.T) {
	answers := []models.FieldAnswer{
		{ChoiceValue: strPtr("Good")},
		{ChoiceValue: strPtr("Bad")},
		{ChoiceValue: strPtr("Good")},
	}

	s := summarizeChoice(answers)
	assert.Equal(t, 3, s["count"])

	buckets := s["buckets"].([]gin.H)
	require.Len(t, buckets, 2)
	// first-seen order of observed values
	assert.Equal(t, gin.H{"value": "Good", "count": 2}, buckets[0])
	assert.Equal(t, gin.H{"value": "Bad", "count": 1}, buckets[1])
}

func TestSummarizeNumber(t *testing.T) {
	answers := []models.FieldAnswer{
		{NumberValue: floatPtr(2)},
		{NumberValue: floatPtr(4)},
	}

	s := summarizeNumber(answers)
	assert.Equal(t, 3.0, s["average"])
	assert.Equal(t, 2, s["count"])
}

func TestSummarizeFieldCountOnlyFallback(t *testing.T) {
	field := models.TemplateField{ID: 1, FieldType: models.FieldText}
	answers := []models.FieldAnswer{
		{TextValue: strPtr("fine")},
		{TextValue: strPtr("meh")},
	}

	s := summarizeField(field, answers)
	assert.Equal(t, models.FieldText, s["type"])
	assert.Equal(t, 2, s["count"])
	// no richer aggregation for text
	assert.NotContains(t, s, "average")
	assert.NotContains(t, s, "buckets")
}

func TestSummarizeFieldZeroResponses(t *testing.T) {
	for _, ft := range []string{
		models.FieldText, models.FieldNumber, models.FieldRating,
		models.FieldChoice, models.FieldCheckbox,
	} {
		field := models.TemplateField{ID: 1, FieldType: ft}
		s := summarizeField(field, nil)
		require.NotNil(t, s, "type %s", ft)
		assert.Equal(t, 0, s["count"], "type %s", ft)
	}
}

func TestBuildTrend(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	times := []time.Time{
		now.AddDate(0, 0, -2),
		now.AddDate(0, 0, -2).Add(time.Hour),
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -45), // outside the trailing window
	}

	trend := buildTrend(times, now, trendWindowDays)

	require.Len(t, trend, 2)
	assert.Equal(t, now.AddDate(0, 0, -2).Format("2006-01-02"), trend[0]["day"])
	assert.Equal(t, 2, trend[0]["count"])
	assert.Equal(t, now.AddDate(0, 0, -1).Format("2006-01-02"), trend[1]["day"])
	assert.Equal(t, 1, trend[1]["count"])
}

func TestBuildTrendEmpty(t *testing.T) {
	trend := buildTrend(nil, time.Now(), trendWindowDays)
	assert.Empty(t, trend)
}
