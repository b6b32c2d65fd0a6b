package models

import "time"

type ExportJob struct {
	JobID           string    `gorm:"column:job_id;primaryKey;size:36" json:"job_id"`
	QuestionnaireID uint      `gorm:"column:questionnaire_id;index" json:"questionnaire_id"`
	Format          string    `gorm:"column:format;size:10" json:"format"` // csv, xlsx
	Status          string    `gorm:"column:status;size:20;default:'queued'" json:"status"`
	FilePath        *string   `gorm:"column:file_path;type:text" json:"file_path,omitempty"`
	ErrorMsg        *string   `gorm:"column:error_msg;type:text" json:"error_msg,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}
