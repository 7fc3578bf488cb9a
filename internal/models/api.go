package models

import "time"

// ChannelMappingRequest represents the request structure for creating/updating mappings
type ChannelMappingRequest struct {
	MappingID         string   `json:"mapping_id" binding:"required"`
	SourceChannelID   int64    `json:"source_channel_id" binding:"required"`
	SourceChannelName string   `json:"source_channel_name"`
	TargetChannelID   int64    `json:"target_channel_id" binding:"required"`
	TargetChannelName string   `json:"target_channel_name"`
	Keywords          []string `json:"keywords"`
	Signature         string   `json:"signature"`
	PromptTemplate    string   `json:"prompt_template"`
	Footer            string   `json:"footer"`
	Active            *bool    `json:"active"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
	Database        string    `json:"database"`
	Telegram        string    `json:"telegram"`
	UnpostedBacklog int64     `json:"unposted_backlog"`
}

// SchedulerStatusResponse represents the scheduler status response
type SchedulerStatusResponse struct {
	Running bool       `json:"running"`
	NextRun *time.Time `json:"next_run,omitempty"`
	LastRun *time.Time `json:"last_run,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
