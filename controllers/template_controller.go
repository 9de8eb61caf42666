package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GechKibr/cmfs-feedback-server/config"
	"github.com/GechKibr/cmfs-feedback-server/middleware"
	"github.com/GechKibr/cmfs-feedback-server/models"
	"github.com/GechKibr/cmfs-feedback-server/utils"
)

/* ========== Create template (staff) ========== */

type fieldReq struct {
	Label     string   `json:"label" binding:"required,min=1"`
	FieldType string   `json:"field_type" binding:"required"`
	Required  bool     `json:"required"`
	Options   []string `json:"options"`
}

type createTemplateReq struct {
	Title       string          `json:"title" binding:"required,min=1"`
	Description string          `json:"description"`
	Settings    json.RawMessage `json:"settings"`
	Fields      []fieldReq      `json:"fields"`
}

// buildFieldRows turns the authored field list into rows with contiguous
// positions starting at 0. Choice/checkbox fields with no options get one
// placeholder option rather than failing the save.
func buildFieldRows(fields []fieldReq) ([]models.TemplateField, error) {
	rows := make([]models.TemplateField, 0, len(fields))
	for i, f := range fields {
		ft := strings.ToLower(strings.TrimSpace(f.FieldType))
		if !models.ValidFieldType(ft) {
			return nil, errors.New("unknown field type: " + f.FieldType)
		}

		row := models.TemplateField{
			Label:     f.Label,
			FieldType: ft,
			Required:  f.Required,
			Position:  i,
		}

		if models.FieldTypeHasOptions(ft) {
			opts := make([]models.FieldOption, 0, len(f.Options))
			for j, v := range f.Options {
				if strings.TrimSpace(v) == "" {
					continue
				}
				opts = append(opts, models.FieldOption{Value: v, Position: j})
			}
			if len(opts) == 0 {
				opts = append(opts, models.FieldOption{Value: "Option 1", Position: 0})
			}
			row.Options = opts
		}

		rows = append(rows, row)
	}
	return rows, nil
}

func CreateTemplate(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req createTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	settings, err := utils.ParseSettings(req.Settings)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	settingsJSON, err := utils.SettingsJSON(settings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not encode settings"})
		return
	}

	fields, err := buildFieldRows(req.Fields)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	tmpl := models.FeedbackTemplate{
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.StatusDraft,
		CreatedByID:  &u.ID,
		SettingsJSON: settingsJSON,
		Fields:       fields,
	}

	if err := config.DB.Create(&tmpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create template"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          tmpl.ID,
		"title":       tmpl.Title,
		"description": tmpl.Description,
		"status":      tmpl.Status,
		"owner_id":    tmpl.CreatedByID,
		"created_at":  tmpl.CreatedAt,
	})
}

/* ========== List own templates (staff) ========== */

func ListMyTemplates(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	q := config.DB.Model(&models.FeedbackTemplate{}).
		Where("created_by_id = ?", u.ID)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var templates []models.FeedbackTemplate
	if err := q.Order("created_at DESC").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

/* ========== Filler-facing listing: active templates only ========== */

func ListAvailableTemplates(c *gin.Context) {
	var templates []models.FeedbackTemplate
	if err := config.DB.
		Where("status = ?", models.StatusActive).
		Order("created_at DESC").
		Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

/* ========== Template detail with ordered fields ========== */

func GetTemplateDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid template ID"})
		return
	}

	var tmpl models.FeedbackTemplate
	err = config.DB.
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Fields.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&tmpl, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Template not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load template"})
		return
	}

	var settings interface{}
	if tmpl.SettingsJSON != "" {
		_ = json.Unmarshal([]byte(tmpl.SettingsJSON), &settings)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             tmpl.ID,
		"title":          tmpl.Title,
		"description":    tmpl.Description,
		"status":         tmpl.Status,
		"settings":       settings,
		"fields":         tmpl.Fields,
		"response_count": tmpl.ResponseCount,
		"created_at":     tmpl.CreatedAt,
	})
}

/* ========== Update title/description/settings (editor) ========== */

type updateTemplateReq struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Settings    *json.RawMessage `json:"settings"`
}

func UpdateTemplate(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	var req updateTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Title must not be empty"})
			return
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Settings != nil {
		patch, err := utils.ParseSettings(*req.Settings)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
			return
		}
		base, err := utils.ParseSettings([]byte(t.SettingsJSON))
		if err != nil {
			base = nil
		}
		merged, err := utils.SettingsJSON(utils.MergeSettings(base, patch))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not encode settings"})
			return
		}
		updates["settings_json"] = merged
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	if err := config.DB.Model(&models.FeedbackTemplate{}).
		Where("id = ?", t.ID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

/* ========== Delete (owner, draft only) ========== */

func DeleteTemplate(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	if t.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"message": "Only draft templates can be deleted"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id IN (?)",
			tx.Model(&models.TemplateField{}).Select("id").Where("template_id = ?", t.ID),
		).Delete(&models.FieldOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", t.ID).Delete(&models.TemplateField{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FeedbackTemplate{}, t.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

/* ========== Lifecycle: activate / deactivate ========== */

func ActivateTemplate(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	if t.Status == models.StatusActive {
		c.JSON(http.StatusOK, gin.H{"message": "already active", "status": t.Status})
		return
	}

	// draft -> active requires at least one field
	if t.Status == models.StatusDraft {
		var count int64
		if err := config.DB.Model(&models.TemplateField{}).
			Where("template_id = ?", t.ID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not count fields"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "Template has no fields"})
			return
		}
	}

	if err := config.DB.Model(&models.FeedbackTemplate{}).
		Where("id = ?", t.ID).
		Update("status", models.StatusActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Activate failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "activated", "status": models.StatusActive})
}

func DeactivateTemplate(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	if t.Status != models.StatusActive {
		c.JSON(http.StatusConflict, gin.H{"message": "Only active templates can be closed"})
		return
	}

	if err := config.DB.Model(&models.FeedbackTemplate{}).
		Where("id = ?", t.ID).
		Update("status", models.StatusClosed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Close failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "closed", "status": models.StatusClosed})
}

/* ========== Share: mint an edit token (owner) ========== */

func ShareTemplate(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	token, err := utils.GenerateEditToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not generate token"})
		return
	}
	hash, err := utils.HashEditToken(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash token"})
		return
	}

	if err := config.DB.Model(&models.FeedbackTemplate{}).
		Where("id = ?", t.ID).
		Update("edit_token_hash", hash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not store token"})
		return
	}

	// raw token is returned exactly once
	c.JSON(http.StatusOK, gin.H{"edit_token": token})
}

/* ========== Settings ========== */

func GetTemplateSettings(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	var settings interface{}
	if t.SettingsJSON != "" {
		_ = json.Unmarshal([]byte(t.SettingsJSON), &settings)
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
