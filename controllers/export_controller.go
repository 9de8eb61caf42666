package controllers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/GechKibr/cmfs-feedback-server/config"
	"github.com/GechKibr/cmfs-feedback-server/middleware"
	"github.com/GechKibr/cmfs-feedback-server/models"
	"github.com/GechKibr/cmfs-feedback-server/utils"
)

const exportDir = "./exports"

type exportRequest struct {
	Format    string  `json:"format"`
	RangeFrom *string `json:"range_from,omitempty"`
	RangeTo   *string `json:"range_to,omitempty"`
}

// POST /api/feedback/templates/:id/export
func CreateExport(c *gin.Context) {
	t := c.MustGet(middleware.CtxTemplate).(models.FeedbackTemplate)

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Format != "csv" && req.Format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Format must be csv or xlsx"})
		return
	}

	var fromPtr, toPtr *time.Time
	if req.RangeFrom != nil {
		if ts, err := time.Parse(time.RFC3339, *req.RangeFrom); err == nil {
			fromPtr = &ts
		}
	}
	if req.RangeTo != nil {
		if ts, err := time.Parse(time.RFC3339, *req.RangeTo); err == nil {
			toPtr = &ts
		}
	}

	jobID := uuid.New().String()
	job := models.ExportJob{
		JobID:      jobID,
		TemplateID: t.ID,
		Format:     req.Format,
		RangeFrom:  fromPtr,
		RangeTo:    toPtr,
		Status:     "queued",
	}
	config.DB.Create(&job)

	go processExportJob(jobID)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "queued",
	})
}

// GET /api/exports/:job_id
func GetExport(c *gin.Context) {
	jobID := c.Param("job_id")
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "DB error"})
		return
	}

	if job.Status == "done" {
		if job.FileURL != nil {
			c.JSON(http.StatusOK, gin.H{"job_id": job.JobID, "status": job.Status, "file_url": *job.FileURL})
			return
		}
		if job.FilePath != nil {
			c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

// answerDisplay flattens one answer to its export cell.
func answerDisplay(a models.FieldAnswer) string {
	switch {
	case a.TextValue != nil:
		return *a.TextValue
	case a.NumberValue != nil:
		return strconv.FormatFloat(*a.NumberValue, 'f', -1, 64)
	case a.RatingValue != nil:
		return strconv.Itoa(*a.RatingValue)
	case a.ChoiceValue != nil:
		return *a.ChoiceValue
	case a.CheckboxJSON != "":
		return strings.Join(a.CheckboxValues(), "; ")
	}
	return ""
}

// exportRows builds the header plus one row per response, one column per
// field in template order.
func exportRows(fields []models.TemplateField, responses []models.FeedbackResponse) [][]string {
	header := []string{"response_id", "email", "submitted_at"}
	for _, f := range fields {
		header = append(header, f.Label)
	}

	rows := [][]string{header}
	for _, r := range responses {
		byField := make(map[uint]models.FieldAnswer, len(r.Answers))
		for _, a := range r.Answers {
			byField[a.FieldID] = a
		}

		email := ""
		if r.Email != nil {
			email = *r.Email
		}
		row := []string{
			fmt.Sprintf("%d", r.ID),
			email,
			r.SubmittedAt.Format(time.RFC3339),
		}
		for _, f := range fields {
			row = append(row, answerDisplay(byField[f.ID]))
		}
		rows = append(rows, row)
	}
	return rows
}

func failExportJob(job *models.ExportJob, err error) {
	em := err.Error()
	config.DB.Model(job).Updates(map[string]interface{}{"status": "failed", "error_msg": em})
}

func processExportJob(jobID string) {
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		return
	}
	config.DB.Model(&job).Update("status", "processing")

	var fields []models.TemplateField
	if err := config.DB.
		Where("template_id = ?", job.TemplateID).
		Order("position ASC, id ASC").
		Find(&fields).Error; err != nil {
		failExportJob(&job, err)
		return
	}

	q := config.DB.Preload("Answers").Where("template_id = ?", job.TemplateID)
	if job.RangeFrom != nil {
		q = q.Where("submitted_at >= ?", job.RangeFrom)
	}
	if job.RangeTo != nil {
		q = q.Where("submitted_at <= ?", job.RangeTo)
	}
	var responses []models.FeedbackResponse
	if err := q.Order("submitted_at ASC").Find(&responses).Error; err != nil {
		failExportJob(&job, err)
		return
	}

	rows := exportRows(fields, responses)

	os.MkdirAll(exportDir, 0755)
	filename := fmt.Sprintf("export_%s.%s", job.JobID, job.Format)
	outPath := path.Join(exportDir, filename)

	var writeErr error
	if job.Format == "xlsx" {
		writeErr = writeXLSX(outPath, rows)
	} else {
		writeErr = writeCSV(outPath, rows)
	}
	if writeErr != nil {
		failExportJob(&job, writeErr)
		return
	}

	updates := map[string]interface{}{"status": "done", "file_path": outPath}

	// best effort: push the artifact to object storage for a shareable URL
	if data, err := os.ReadFile(outPath); err == nil {
		contentType := "text/csv"
		if job.Format == "xlsx" {
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		}
		if url, err := utils.UploadExportArtifact(data, filename, contentType); err == nil {
			updates["file_url"] = url
		}
	}

	config.DB.Model(&job).Updates(updates)
}

func writeCSV(outPath string, rows [][]string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeXLSX(outPath string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Responses"
	f.SetSheetName("Sheet1", sheet)

	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, name, cell); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(outPath)
}

// CleanupStaleExports removes export artifacts older than maxAge. Wired
// to an hourly cron schedule in main.
func CleanupStaleExports(maxAge time.Duration) {
	entries, err := os.ReadDir(exportDir)
	if err != nil {
		return
	}
	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			full := path.Join(exportDir, entry.Name())
			if err := os.Remove(full); err != nil {
				log.Printf("could not remove stale export %s: %v", full, err)
			}
		}
	}
}
