package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GechKibr/cmfs-feedback-server/config"
	"github.com/GechKibr/cmfs-feedback-server/middleware"
	"github.com/GechKibr/cmfs-feedback-server/models"
)

// trendWindowDays bounds the response trend to a trailing window.
const trendWindowDays = 30

const analyticsCacheTTL = 60 * time.Second

/* ========== Pure per-field summarizers ========== */

// summarizeRating averages the present rating values and reports a
// per-value histogram. Zero answers yields average 0, count 0.
func summarizeRating(answers []models.FieldAnswer) gin.H {
	sum, count := 0, 0
	histogram := make(map[int]int)
	for _, a := range answers {
		if a.RatingValue == nil {
			continue
		}
		sum += *a.RatingValue
		count++
		histogram[*a.RatingValue]++
	}

	buckets := []gin.H{}
	for rating := 1; rating <= models.RatingMax; rating++ {
		if n, ok := histogram[rating]; ok {
			buckets = append(buckets, gin.H{"rating": rating, "count": n})
		}
	}

	average := 0.0
	if count > 0 {
		average = float64(sum) / float64(count)
	}
	return gin.H{"type": models.FieldRating, "average": average, "count": count, "histogram": buckets}
}

// summarizeChoice builds a histogram with one bucket per distinct observed
// value, in first-seen order. Declared options never chosen get no bucket.
func summarizeChoice(answers []models.FieldAnswer) gin.H {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, a := range answers {
		if a.ChoiceValue == nil {
			continue
		}
		v := *a.ChoiceValue
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
		total++
	}

	buckets := []gin.H{}
	for _, v := range order {
		buckets = append(buckets, gin.H{"value": v, "count": counts[v]})
	}
	return gin.H{"type": models.FieldChoice, "count": total, "buckets": buckets}
}

func summarizeNumber(answers []models.FieldAnswer) gin.H {
	sum, count := 0.0, 0
	for _, a := range answers {
		if a.NumberValue == nil {
			continue
		}
		sum += *a.NumberValue
		count++
	}
	average := 0.0
	if count > 0 {
		average = sum / float64(count)
	}
	return gin.H{"type": models.FieldNumber, "average": average, "count": count}
}

// summarizeField dispatches on the field type. Text and checkbox fields
// only get an answered count.
func summarizeField(field models.TemplateField, answers []models.FieldAnswer) gin.H {
	switch field.FieldType {
	case models.FieldRating:
		return summarizeRating(answers)
	case models.FieldChoice:
		return summarizeChoice(answers)
	case models.FieldNumber:
		return summarizeNumber(answers)
	default:
		count := 0
		for _, a := range answers {
			if a.HasValue() {
				count++
			}
		}
		return gin.H{"type": field.FieldType, "count": count}
	}
}

// buildTrend groups submission times by calendar day over the trailing
// window and emits (day, count) pairs in chronological order. Days with
// zero responses are omitted.
func buildTrend(times []time.Time, now time.Time, windowDays int) []gin.H {
	cutoff := now.AddDate(0, 0, -windowDays)

	counts := make(map[string]int)
	for _, ts := range times {
		if ts.Before(cutoff) {
			continue
		}
		counts[ts.Format("2006-01-02")]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	trend := []gin.H{}
	for _, day := range days {
		trend = append(trend, gin.H{"day": day, "count": counts[day]})
	}
	return trend
}

/* ========== Analytics endpoint (editor) ========== */

// GET /api/feedback/templates/:id/analytics
func GetTemplateAnalytics(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	if cached, ok := readAnalyticsCache(t.ID); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	var fields []models.TemplateField
	if err := config.DB.
		Where("template_id = ?", t.ID).
		Order("position ASC, id ASC").
		Preload("Options").
		Find(&fields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load fields"})
		return
	}

	var responses []models.FeedbackResponse
	if err := config.DB.
		Select("id, submitted_at").
		Where("template_id = ?", t.ID).
		Order("submitted_at ASC").
		Find(&responses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load responses"})
		return
	}

	var answers []models.FieldAnswer
	if err := config.DB.
		Joins("JOIN feedback_responses ON feedback_responses.id = field_answers.response_id").
		Where("feedback_responses.template_id = ?", t.ID).
		Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load answers"})
		return
	}

	byField := make(map[uint][]models.FieldAnswer)
	for _, a := range answers {
		byField[a.FieldID] = append(byField[a.FieldID], a)
	}

	fieldAnalytics := gin.H{}
	for _, f := range fields {
		fieldAnalytics[f.Label] = summarizeField(f, byField[f.ID])
	}

	times := make([]time.Time, 0, len(responses))
	for _, r := range responses {
		times = append(times, r.SubmittedAt)
	}

	payload := gin.H{
		"template_id":     t.ID,
		"total_responses": len(responses),
		"field_analytics": fieldAnalytics,
		"response_trend":  buildTrend(times, time.Now(), trendWindowDays),
	}

	writeAnalyticsCache(t.ID, payload)
	c.JSON(http.StatusOK, payload)
}

/* ========== Redis cache, optional ========== */

func analyticsCacheKey(templateID uint) string {
	return fmt.Sprintf("analytics:%d", templateID)
}

func readAnalyticsCache(templateID uint) ([]byte, bool) {
	if config.RedisClient == nil {
		return nil, false
	}
	ctx := context.Background()
	data, err := config.RedisClient.Get(ctx, analyticsCacheKey(templateID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func writeAnalyticsCache(templateID uint, payload gin.H) {
	if config.RedisClient == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ctx := context.Background()
	_ = config.RedisClient.Set(ctx, analyticsCacheKey(templateID), data, analyticsCacheTTL).Err()
}

// invalidateAnalyticsCache drops the cached payload after every new
// response; the next read recomputes.
func invalidateAnalyticsCache(templateID uint) {
	if config.RedisClient == nil {
		return
	}
	ctx := context.Background()
	_ = config.RedisClient.Del(ctx, analyticsCacheKey(templateID)).Err()
}
