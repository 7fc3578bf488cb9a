package models

import (
	"time"
)

// Media kinds reported by the channel transport.
const (
	MediaTypePhoto    = "photo"
	MediaTypeVideo    = "video"
	MediaTypeAudio    = "audio"
	MediaTypeDocument = "document"
)

// BaselineText is the sentinel stored for the record that seeds a
// mapping's cursor on first activation. It is marked posted immediately
// and never forwarded.
const BaselineText = "[BASELINE - DO NOT POST]"

// ProcessedMessage is the durable record of every message the processor
// has handled. The triple (message_id, source_channel_id,
// target_channel_id) is unique; re-processing the same message
// overwrites the prior row.
type ProcessedMessage struct {
	ID              uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	MessageID       int64      `json:"message_id" gorm:"not null;uniqueIndex:idx_message_route"`
	SourceChannelID int64      `json:"source_channel_id" gorm:"not null;uniqueIndex:idx_message_route"`
	TargetChannelID int64      `json:"target_channel_id" gorm:"not null;uniqueIndex:idx_message_route"`
	MappingID       string     `json:"mapping_id" gorm:"type:varchar(64);not null;index"`
	OriginalText    string     `json:"original_text" gorm:"type:text"`
	RewrittenText   string     `json:"rewritten_text" gorm:"type:text"`
	ReceivedAt      time.Time  `json:"received_at"`
	ProcessedAt     time.Time  `json:"processed_at"`
	Posted          bool       `json:"posted" gorm:"default:false;index"`
	PostedAt        *time.Time `json:"posted_at"`
	HasMedia        bool       `json:"has_media" gorm:"default:false"`
	MediaType       string     `json:"media_type" gorm:"type:varchar(32)"`
	MediaPath       string     `json:"media_path" gorm:"type:varchar(512)"`
	MediaRef        string     `json:"media_ref" gorm:"type:varchar(255)"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for ProcessedMessage
func (ProcessedMessage) TableName() string {
	return "processed_messages"
}

// CandidateMessage is a transient message produced by the channel
// transport per fetch. It is consumed immediately by the processor and
// never persisted directly.
type CandidateMessage struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
	HasMedia  bool      `json:"has_media"`
	MediaType string    `json:"media_type"`
	MediaRef  string    `json:"media_ref"`
}
