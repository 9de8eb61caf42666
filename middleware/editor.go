package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GechKibr/cmfs-feedback-server/config"
	"github.com/GechKibr/cmfs-feedback-server/models"
	"github.com/GechKibr/cmfs-feedback-server/utils"
)

const (
	HeaderEditToken = "X-Template-Edit-Token"
	CtxTemplate     = "templateObj"
	CtxField        = "fieldObj"
)

// isOwner is nil-safe over the *uint owner column.
func isOwner(u models.User, t *models.FeedbackTemplate) bool {
	return t.CreatedByID != nil && *t.CreatedByID == u.ID
}

// CheckTemplateEditor allows (1) a JWT owner, or (2) a valid edit token.
func CheckTemplateEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid template ID"})
			return
		}

		var t models.FeedbackTemplate
		if e := config.DB.First(&t, id).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Template not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load template"})
			return
		}

		// 1) JWT owner
		if v, ok := c.Get(CtxUser); ok {
			if u, ok2 := v.(models.User); ok2 && isOwner(u, &t) {
				c.Set(CtxTemplate, t)
				c.Next()
				return
			}
		}

		// 2) Edit token
		token := c.GetHeader(HeaderEditToken)
		if token != "" && utils.VerifyEditToken(t.EditTokenHash, token) {
			c.Set(CtxTemplate, t)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Missing or invalid edit permission for this template"})
	}
}

// CheckTemplateOwner loads the template and verifies strict ownership.
// Used for actions an edit token must not unlock (share, delete).
func CheckTemplateOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid template ID"})
			return
		}

		var t models.FeedbackTemplate
		if err := config.DB.First(&t, id).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Template not found"})
			return
		}

		if !isOwner(u, &t) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this template"})
			return
		}

		c.Set(CtxTemplate, t)
		c.Next()
	}
}

// CheckFieldEditor resolves a field back to its template and applies the
// same owner-or-edit-token rule as CheckTemplateEditor.
func CheckFieldEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		fid, err := strconv.Atoi(c.Param("id"))
		if err != nil || fid <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid field ID"})
			return
		}

		var f models.TemplateField
		if e := config.DB.First(&f, fid).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Field not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load field"})
			return
		}

		var t models.FeedbackTemplate
		if e := config.DB.Select("id, created_by_id, status, edit_token_hash").
			First(&t, f.TemplateID).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Template not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load template"})
			return
		}

		if v, ok := c.Get(CtxUser); ok {
			if u, ok2 := v.(models.User); ok2 && isOwner(u, &t) {
				c.Set(CtxField, f)
				c.Next()
				return
			}
		}

		token := c.GetHeader(HeaderEditToken)
		if token != "" && utils.VerifyEditToken(t.EditTokenHash, token) {
			c.Set(CtxField, f)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Missing or invalid edit permission for this field"})
	}
}
