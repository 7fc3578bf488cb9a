package models

import (
	"time"

	"gorm.io/gorm"
)

// ChannelMapping represents a source -> target forwarding rule in the database
type ChannelMapping struct {
	ID                uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	MappingID         string         `json:"mapping_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	SourceChannelID   int64          `json:"source_channel_id" gorm:"not null;index"`
	SourceChannelName string         `json:"source_channel_name" gorm:"type:varchar(255)"`
	TargetChannelID   int64          `json:"target_channel_id" gorm:"not null"`
	TargetChannelName string         `json:"target_channel_name" gorm:"type:varchar(255)"`
	Keywords          []string       `json:"keywords" gorm:"serializer:json;type:text"`
	Signature         string         `json:"signature" gorm:"type:varchar(255)"`
	PromptTemplate    string         `json:"prompt_template" gorm:"type:text"`
	Footer            string         `json:"footer" gorm:"type:text"`
	Active            bool           `json:"active" gorm:"default:true"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for ChannelMapping
func (ChannelMapping) TableName() string {
	return "channel_mappings"
}
