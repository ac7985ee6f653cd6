package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ImportJobStatus string

const (
	ImportJobStatusPending    ImportJobStatus = "pending"
	ImportJobStatusProcessing ImportJobStatus = "processing"
	ImportJobStatusCompleted  ImportJobStatus = "completed"
	ImportJobStatusFailed     ImportJobStatus = "failed"
)

const (
	ImportErrorKindRow   = "row"
	ImportErrorKindFatal = "fatal"
)

// ImportError is one entry in a job's error list. Row errors carry the
// original CSV row; fatal errors carry only a message.
type ImportError struct {
	Kind    string            `json:"kind"`
	Row     map[string]string `json:"row,omitempty"`
	Message string            `json:"message"`
}

// ImportErrorList is stored as a jsonb column.
type ImportErrorList []ImportError

func (l ImportErrorList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *ImportErrorList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for ImportErrorList: %T", value)
	}
	return json.Unmarshal(data, l)
}

// ImportJob tracks one asynchronous CSV import from upload to completion.
// The processing worker is the only writer after creation.
type ImportJob struct {
	BaseModel
	JobID         uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"job_id"`
	FileName      string          `gorm:"size:255;not null" json:"file_name"`
	FilePath      string          `gorm:"not null" json:"-"`
	Status        ImportJobStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	TotalRows     int             `gorm:"default:0" json:"total_rows"`
	ProcessedRows int             `gorm:"default:0" json:"processed_rows"`
	SuccessCount  int             `gorm:"default:0" json:"success_count"`
	ErrorCount    int             `gorm:"default:0" json:"error_count"`
	Errors        ImportErrorList `gorm:"type:jsonb" json:"errors"`
	StartedAt     *time.Time      `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at"`
}

// Progress returns the completion percentage, 0 when no rows are known yet.
func (j *ImportJob) Progress() float64 {
	if j.TotalRows == 0 {
		return 0
	}
	return float64(j.ProcessedRows) / float64(j.TotalRows) * 100
}
