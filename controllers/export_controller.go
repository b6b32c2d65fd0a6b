package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/config"
	"github.com/vnkhanh/noyes-server/middleware"
	"github.com/vnkhanh/noyes-server/models"
)

type exportReq struct {
	Format string `json:"format"` // csv (default) or xlsx
}

// CreateExport queues an export of the questionnaire's raw response
// history and returns the job id. The file is produced in the background.
func CreateExport(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	var req exportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Format != "csv" && req.Format != "xlsx" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "format must be csv or xlsx"})
		return
	}

	jobID := uuid.New().String()
	job := models.ExportJob{
		JobID:           jobID,
		QuestionnaireID: q.ID,
		Format:          req.Format,
		Status:          "queued",
	}
	if err := config.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot queue export"})
		return
	}

	go processExportJob(jobID)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "queued",
	})
}

// GetExport returns job status, or the file itself once done. Only the
// owner of the exported questionnaire may see the job; everyone else gets
// 404 so job ids are not probeable.
func GetExport(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	jobID := c.Param("job_id")
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load job"})
		return
	}

	var owned int64
	if err := config.DB.Model(&models.Questionnaire{}).
		Where("id = ? AND owner_id = ?", job.QuestionnaireID, u.ID).
		Count(&owned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load job"})
		return
	}
	if owned == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
		return
	}

	if job.Status == "done" && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

type exportRow struct {
	SessionID   uint
	Identity    string
	StartedAt   time.Time
	IsComplete  bool
	Order       uint
	NodeSlug    string
	AnswerGiven string
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

	rows, err := collectExportRows(job.QuestionnaireID)
	if err != nil {
		failExportJob(&job, err)
		return
	}

	outDir := "./exports"
	os.MkdirAll(outDir, 0755)
	outPath := path.Join(outDir, fmt.Sprintf("export_%s.%s", job.JobID, job.Format))

	if job.Format == "xlsx" {
		err = writeExportXLSX(outPath, rows)
	} else {
		err = writeExportCSV(outPath, rows)
	}
	if err != nil {
		failExportJob(&job, err)
		return
	}

	config.DB.Model(&job).Updates(map[string]interface{}{"status": "done", "file_path": outPath})
}

func collectExportRows(questionnaireID uint) ([]exportRow, error) {
	var sessions []models.QuestionnaireSession
	if err := config.DB.Preload("User").
		Where("questionnaire_id = ?", questionnaireID).
		Order("started_at ASC, id ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	var rows []exportRow
	for _, s := range sessions {
		identity := s.SessionKey
		if s.User != nil {
			identity = s.User.Email
		}
		var responses []models.NodeResponse
		if err := config.DB.Preload("Node").
			Where("session_id = ?", s.ID).
			Order("step_order ASC").
			Find(&responses).Error; err != nil {
			return nil, err
		}
		for _, r := range responses {
			slug := ""
			if r.Node != nil {
				slug = r.Node.Slug
			}
			rows = append(rows, exportRow{
				SessionID:   s.ID,
				Identity:    identity,
				StartedAt:   s.StartedAt,
				IsComplete:  s.IsComplete,
				Order:       r.Order,
				NodeSlug:    slug,
				AnswerGiven: r.AnswerGiven,
			})
		}
	}
	return rows, nil
}

var exportHeader = []string{"session_id", "identity", "started_at", "is_complete", "order", "node", "answer_given"}

func (r exportRow) strings() []string {
	return []string{
		fmt.Sprintf("%d", r.SessionID),
		r.Identity,
		r.StartedAt.Format(time.RFC3339),
		fmt.Sprintf("%t", r.IsComplete),
		fmt.Sprintf("%d", r.Order),
		r.NodeSlug,
		r.AnswerGiven,
	}
}

func writeExportCSV(outPath string, rows []exportRow) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.strings()); err != nil {
			return err
		}
	}
	return nil
}

func writeExportXLSX(outPath string, rows []exportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Responses"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, r := range rows {
		for col, v := range r.strings() {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f.SaveAs(outPath)
}
