package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GechKibr/cmfs-feedback-server/config"
	"github.com/GechKibr/cmfs-feedback-server/middleware"
	"github.com/GechKibr/cmfs-feedback-server/models"
)

/* ========== Add field (editor) ========== */

func AddField(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	var req fieldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	rows, err := buildFieldRows([]fieldReq{req})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	field := rows[0]
	field.TemplateID = t.ID

	// next position = MAX(position)+1, 0-based
	type nextRes struct{ Next int }
	var r nextRes
	_ = config.DB.Model(&models.TemplateField{}).
		Where("template_id = ?", t.ID).
		Select("COALESCE(MAX(position), -1) + 1 AS next").
		Scan(&r).Error
	field.Position = r.Next

	if err := config.DB.Create(&field).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not add field"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"field_id": field.ID, "template_id": t.ID, "position": field.Position})
}

/* ========== Update field (editor) ========== */

type updateFieldReq struct {
	Label    *string   `json:"label"`
	Required *bool     `json:"required"`
	Options  *[]string `json:"options"` // full replacement of the option list
}

func UpdateField(c *gin.Context) {
	f := c.MustGet(middleware.CtxField).(models.TemplateField)

	var req updateFieldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Label != nil {
		if strings.TrimSpace(*req.Label) == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Label must not be empty"})
			return
		}
		updates["label"] = *req.Label
	}
	if req.Required != nil {
		updates["required"] = *req.Required
	}
	if req.Options != nil && !models.FieldTypeHasOptions(f.FieldType) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Field type has no options"})
		return
	}
	if len(updates) == 0 && req.Options == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.TemplateField{}).
				Where("id = ?", f.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Options != nil {
			if err := tx.Where("field_id = ?", f.ID).Delete(&models.FieldOption{}).Error; err != nil {
				return err
			}
			pos := 0
			for _, v := range *req.Options {
				if strings.TrimSpace(v) == "" {
					continue
				}
				opt := models.FieldOption{FieldID: f.ID, Value: v, Position: pos}
				if err := tx.Create(&opt).Error; err != nil {
					return err
				}
				pos++
			}
			// an empty list defaults to one placeholder option
			if pos == 0 {
				opt := models.FieldOption{FieldID: f.ID, Value: "Option 1", Position: 0}
				if err := tx.Create(&opt).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

/* ========== Delete field (editor) + compact positions ========== */

func DeleteField(c *gin.Context) {
	f := c.MustGet(middleware.CtxField).(models.TemplateField)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", f.ID).Delete(&models.FieldOption{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&f).Error; err != nil {
			return err
		}
		// fields behind the removed one shift down by 1, keeping 0..n-1
		return tx.Model(&models.TemplateField{}).
			Where("template_id = ? AND position > ?", f.TemplateID, f.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

/* ========== Move field up/down (editor) ========== */

type moveFieldReq struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// moveTarget computes the neighbor position for a swap; ok is false at
// either boundary, which makes the move a no-op.
func moveTarget(pos int, direction string, count int) (int, bool) {
	switch direction {
	case "up":
		if pos <= 0 {
			return 0, false
		}
		return pos - 1, true
	case "down":
		if pos >= count-1 {
			return 0, false
		}
		return pos + 1, true
	}
	return 0, false
}

func MoveField(c *gin.Context) {
	f := c.MustGet(middleware.CtxField).(models.TemplateField)

	var req moveFieldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	var count int64
	if err := config.DB.Model(&models.TemplateField{}).
		Where("template_id = ?", f.TemplateID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not count fields"})
		return
	}

	target, ok := moveTarget(f.Position, req.Direction, int(count))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "no-op", "position": f.Position})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TemplateField{}).
			Where("template_id = ? AND position = ? AND id <> ?", f.TemplateID, target, f.ID).
			Update("position", f.Position).Error; err != nil {
			return err
		}
		return tx.Model(&models.TemplateField{}).
			Where("id = ?", f.ID).
			Update("position", target).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Move failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "moved", "position": target})
}

/* ========== Reorder all fields (editor) ========== */

type reorderReq struct {
	Order []uint `json:"order" binding:"required,min=1,dive,required"`
}

func ReorderFields(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	seen := make(map[uint]bool, len(req.Order))
	for _, id := range req.Order {
		if seen[id] {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order list contains duplicates"})
			return
		}
		seen[id] = true
	}

	// the list must cover the template's fields exactly
	var total int64
	if err := config.DB.Model(&models.TemplateField{}).
		Where("template_id = ?", t.ID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not validate fields"})
		return
	}
	var matched int64
	if err := config.DB.Model(&models.TemplateField{}).
		Where("template_id = ? AND id IN ?", t.ID, req.Order).
		Count(&matched).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not validate fields"})
		return
	}
	if matched != int64(len(req.Order)) || total != int64(len(req.Order)) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Order list must contain every field of the template exactly once"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for idx, fid := range req.Order {
			if err := tx.Model(&models.TemplateField{}).
				Where("id = ? AND template_id = ?", fid, t.ID).
				Update("position", idx).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Reorder failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}
