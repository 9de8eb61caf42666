package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GechKibr/cmfs-feedback-server/config"
	"github.com/GechKibr/cmfs-feedback-server/middleware"
	"github.com/GechKibr/cmfs-feedback-server/models"
	"github.com/GechKibr/cmfs-feedback-server/utils"
)

type answerReq struct {
	FieldID        uint     `json:"field_id" binding:"required"`
	TextValue      *string  `json:"text_value"`
	NumberValue    *float64 `json:"number_value"`
	RatingValue    *int     `json:"rating_value"`
	ChoiceValue    *string  `json:"choice_value"`
	CheckboxValues []string `json:"checkbox_values"`
}

type submitResponseReq struct {
	TemplateID uint        `json:"template_id" binding:"required"`
	Email      *string     `json:"email"`
	Answers    []answerReq `json:"answers" binding:"required"`
}

// populatedKinds lists which union arms the client filled in.
func populatedKinds(ans answerReq) []string {
	var kinds []string
	if ans.TextValue != nil {
		kinds = append(kinds, models.FieldText)
	}
	if ans.NumberValue != nil {
		kinds = append(kinds, models.FieldNumber)
	}
	if ans.RatingValue != nil {
		kinds = append(kinds, models.FieldRating)
	}
	if ans.ChoiceValue != nil {
		kinds = append(kinds, models.FieldChoice)
	}
	if len(ans.CheckboxValues) > 0 {
		kinds = append(kinds, models.FieldCheckbox)
	}
	return kinds
}

// validateAnswer checks one answer against its field's type contract and
// builds the row to persist. A nil row with nil error means the optional
// field was left unanswered.
func validateAnswer(field models.TemplateField, ans answerReq) (*models.FieldAnswer, error) {
	kinds := populatedKinds(ans)
	if len(kinds) > 1 {
		return nil, fmt.Errorf("field %d: more than one value kind supplied", field.ID)
	}
	if len(kinds) == 1 && kinds[0] != field.FieldType {
		return nil, fmt.Errorf("field %d expects a %s value", field.ID, field.FieldType)
	}

	row := &models.FieldAnswer{FieldID: field.ID}

	switch field.FieldType {
	case models.FieldText:
		if ans.TextValue == nil || strings.TrimSpace(*ans.TextValue) == "" {
			if field.Required {
				return nil, fmt.Errorf("field %d is required", field.ID)
			}
			return nil, nil
		}
		row.TextValue = ans.TextValue

	case models.FieldNumber:
		if ans.NumberValue == nil {
			if field.Required {
				return nil, fmt.Errorf("field %d is required", field.ID)
			}
			return nil, nil
		}
		if math.IsNaN(*ans.NumberValue) || math.IsInf(*ans.NumberValue, 0) {
			return nil, fmt.Errorf("field %d: number must be finite", field.ID)
		}
		row.NumberValue = ans.NumberValue

	case models.FieldRating:
		if ans.RatingValue == nil {
			if field.Required {
				return nil, fmt.Errorf("field %d is required", field.ID)
			}
			return nil, nil
		}
		if *ans.RatingValue < 1 || *ans.RatingValue > models.RatingMax {
			return nil, fmt.Errorf("field %d: rating must be between 1 and %d", field.ID, models.RatingMax)
		}
		row.RatingValue = ans.RatingValue

	case models.FieldChoice:
		if ans.ChoiceValue == nil || *ans.ChoiceValue == "" {
			if field.Required {
				return nil, fmt.Errorf("field %d is required", field.ID)
			}
			return nil, nil
		}
		if !containsString(field.OptionValues(), *ans.ChoiceValue) {
			return nil, fmt.Errorf("field %d: %q is not a declared option", field.ID, *ans.ChoiceValue)
		}
		row.ChoiceValue = ans.ChoiceValue

	case models.FieldCheckbox:
		if len(ans.CheckboxValues) == 0 {
			if field.Required {
				return nil, fmt.Errorf("field %d is required", field.ID)
			}
			return nil, nil
		}
		opts := field.OptionValues()
		seen := make(map[string]bool, len(ans.CheckboxValues))
		for _, v := range ans.CheckboxValues {
			if !containsString(opts, v) {
				return nil, fmt.Errorf("field %d: %q is not a declared option", field.ID, v)
			}
			if seen[v] {
				return nil, fmt.Errorf("field %d: duplicate selection %q", field.ID, v)
			}
			seen[v] = true
		}
		b, err := json.Marshal(ans.CheckboxValues)
		if err != nil {
			return nil, fmt.Errorf("field %d: could not encode selections", field.ID)
		}
		row.CheckboxJSON = string(b)

	default:
		return nil, fmt.Errorf("field %d has unknown type %q", field.ID, field.FieldType)
	}

	return row, nil
}

// validateAnswerSet resolves every answer against the template's fields,
// enforces required fields across the whole set and returns the rows to
// persist. Unknown field ids and duplicate answers are rejected.
func validateAnswerSet(fields []models.TemplateField, answers []answerReq) ([]models.FieldAnswer, error) {
	byID := make(map[uint]models.TemplateField, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	picked := make(map[uint]answerReq, len(answers))
	for _, ans := range answers {
		if _, ok := byID[ans.FieldID]; !ok {
			return nil, fmt.Errorf("field %d does not belong to this template", ans.FieldID)
		}
		if _, dup := picked[ans.FieldID]; dup {
			return nil, fmt.Errorf("field %d answered more than once", ans.FieldID)
		}
		picked[ans.FieldID] = ans
	}

	rows := make([]models.FieldAnswer, 0, len(answers))
	for _, f := range fields {
		ans, ok := picked[f.ID]
		if !ok {
			if f.Required {
				return nil, fmt.Errorf("field %d is required", f.ID)
			}
			continue
		}
		row, err := validateAnswer(f, ans)
		if err != nil {
			return nil, err
		}
		if row != nil {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func isValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

/* ========== Submit a response ========== */

func SubmitResponse(c *gin.Context) {
	var req submitResponseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	var tmpl models.FeedbackTemplate
	if err := config.DB.
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Fields.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&tmpl, req.TemplateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Template not found"})
		return
	}

	// closed (and draft) templates accept no responses
	if !tmpl.AcceptsResponses() {
		c.JSON(http.StatusConflict, gin.H{"message": "Template is not accepting responses"})
		return
	}

	settings, err := utils.ParseSettings([]byte(tmpl.SettingsJSON))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Template settings are invalid"})
		return
	}

	if settings.MaxResponses.Value != nil {
		var count int64
		if err := config.DB.Model(&models.FeedbackResponse{}).
			Where("template_id = ?", tmpl.ID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not check response count"})
			return
		}
		if count >= int64(*settings.MaxResponses.Value) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Template has reached its response limit"})
			return
		}
	}

	if req.Email != nil && *req.Email != "" && !isValidEmail(*req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email"})
		return
	}

	var userID *uint
	if v, exists := c.Get(middleware.CtxUser); exists {
		if user, ok := v.(models.User); ok {
			userID = &user.ID
		}
	}
	if settings.RequireLogin != nil && *settings.RequireLogin && userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "This template requires login"})
		return
	}

	rows, err := validateAnswerSet(tmpl.Fields, req.Answers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	emailPtr := req.Email
	if userID != nil {
		var user models.User
		if err := config.DB.First(&user, *userID).Error; err == nil && user.Email != "" {
			emailPtr = &user.Email
		}
	}

	var responseID uint
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		response := models.FeedbackResponse{
			TemplateID:  tmpl.ID,
			UserID:      userID,
			Email:       emailPtr,
			SubmittedAt: time.Now(),
		}
		if err := tx.Create(&response).Error; err != nil {
			return err
		}

		for i := range rows {
			rows[i].ResponseID = response.ID
			if err := tx.Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("could not save answer for field %d: %w", rows[i].FieldID, err)
			}
		}

		responseID = response.ID
		return tx.Model(&models.FeedbackTemplate{}).
			Where("id = ?", tmpl.ID).
			UpdateColumn("response_count", gorm.Expr("response_count + 1")).Error
	})
	if err != nil {
		log.Printf("failed to save response: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save response"})
		return
	}

	invalidateAnalyticsCache(tmpl.ID)

	c.JSON(http.StatusCreated, gin.H{"response_id": responseID, "message": "Response recorded"})
}

/* ========== List responses (editor) ========== */

// GET /api/feedback/templates/:id/responses?page=1&limit=10&start_date=2026-08-01&end_date=2026-08-29
func GetResponses(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.FeedbackResponse{}).
		Where("template_id = ?", t.ID)

	if s := c.Query("start_date"); s != "" {
		if startDate, err := time.Parse("2006-01-02", s); err == nil {
			query = query.Where("submitted_at >= ?", startDate)
		}
	}
	if s := c.Query("end_date"); s != "" {
		if endDate, err := time.Parse("2006-01-02", s); err == nil {
			// +1 day so the end date is inclusive
			query = query.Where("submitted_at < ?", endDate.Add(24*time.Hour))
		}
	}

	var total int64
	query.Count(&total)

	var responses []models.FeedbackResponse
	if err := query.
		Preload("User").
		Preload("Answers").
		Order("submitted_at DESC").
		Limit(limit).Offset(offset).
		Find(&responses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list responses"})
		return
	}

	resp := []gin.H{}
	for _, r := range responses {
		resp = append(resp, formatResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{
		"template_id": t.ID,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"responses":   resp,
	})
}

/* ========== Response detail (editor) ========== */

func GetResponseDetail(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	rid, err := strconv.Atoi(c.Param("rid"))
	if err != nil || rid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid response ID"})
		return
	}

	var response models.FeedbackResponse
	if err := config.DB.
		Preload("User").
		Preload("Answers").
		Where("id = ? AND template_id = ?", rid, t.ID).
		First(&response).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Response not found"})
		return
	}

	c.JSON(http.StatusOK, formatResponse(response))
}

func formatResponse(r models.FeedbackResponse) gin.H {
	answers := []gin.H{}
	for _, a := range r.Answers {
		entry := gin.H{"field_id": a.FieldID}
		switch {
		case a.TextValue != nil:
			entry["text_value"] = *a.TextValue
		case a.NumberValue != nil:
			entry["number_value"] = *a.NumberValue
		case a.RatingValue != nil:
			entry["rating_value"] = *a.RatingValue
		case a.ChoiceValue != nil:
			entry["choice_value"] = *a.ChoiceValue
		case a.CheckboxJSON != "":
			entry["checkbox_values"] = a.CheckboxValues()
		}
		answers = append(answers, entry)
	}

	return gin.H{
		"id":           r.ID,
		"template_id":  r.TemplateID,
		"user_id":      r.UserID,
		"email":        r.Email,
		"submitted_at": r.SubmittedAt,
		"answers":      answers,
	}
}
