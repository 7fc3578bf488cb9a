package models

import (
	"time"

	"gorm.io/gorm"
)

// Forward attempt statuses
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// Pipeline stages recorded in forward logs
const (
	StageFetch    = "fetch"
	StageFilter   = "filter"
	StageRewrite  = "rewrite"
	StageDownload = "download"
	StagePersist  = "persist"
	StageSend     = "send"
)

// ForwardLog represents a log entry for a single processing/forwarding attempt
type ForwardLog struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	MessageID int64          `json:"message_id" gorm:"not null;index"`
	MappingID string         `json:"mapping_id" gorm:"type:varchar(64);not null;index"`
	Stage     string         `json:"stage" gorm:"type:varchar(32);not null"`
	Status    string         `json:"status" gorm:"type:varchar(32);not null"`
	ErrorMsg  string         `json:"error_msg" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for ForwardLog
func (ForwardLog) TableName() string {
	return "forward_logs"
}
