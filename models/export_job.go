package models

import "time"

// Trạng thái export job
const (
	ExportQueued     = "queued"
	ExportProcessing = "processing"
	ExportDone       = "done"
	ExportFailed     = "failed"
)

type ExportJob struct {
	JobID       string    `gorm:"column:job_id;primaryKey;size:36" json:"job_id"`
	SurveyID    uint      `gorm:"column:survey_id;index" json:"survey_id"`
	IssuerID    uint      `gorm:"column:issuer_id;index" json:"-"`
	Format      string    `gorm:"column:format;size:10" json:"format"` // csv, xlsx
	FilterType  string    `gorm:"column:filter_type;size:20" json:"filter_type"`
	FilterValue string    `gorm:"column:filter_value;size:64" json:"filter_value"`
	Status      string    `gorm:"column:status;size:20;default:'queued'" json:"status"`
	Rows        int       `gorm:"column:row_count" json:"rows"`
	FilePath    *string   `gorm:"column:file_path;type:text" json:"-"`
	PublicURL   *string   `gorm:"column:public_url;type:text" json:"url,omitempty"`
	ErrorMsg    *string   `gorm:"column:error_msg;type:text" json:"error,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}
