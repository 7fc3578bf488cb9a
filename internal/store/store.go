package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"channel-relay-go/internal/models"
)

// Store is the durable record of every message the processor has
// handled, plus the mapping registry and forward logs.
type Store struct {
	db *gorm.DB
}

// New creates a new store
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertRecord saves a processed message. The triple (message_id,
// source_channel_id, target_channel_id) is unique; re-processing the
// same message overwrites the prior rewritten text and media fields.
func (s *Store) UpsertRecord(msg *models.ProcessedMessage) error {
	msg.ProcessedAt = time.Now()

	result := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "message_id"},
			{Name: "source_channel_id"},
			{Name: "target_channel_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"mapping_id", "original_text", "rewritten_text",
			"received_at", "processed_at",
			"has_media", "media_type", "media_path", "media_ref",
			"updated_at",
		}),
	}).Create(msg)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert processed message: %w", result.Error)
	}
	return nil
}

// GetMaxProcessedID returns the cursor for a mapping: the highest
// message id already recorded for (source channel, mapping). The second
// return value reports whether a cursor exists at all.
func (s *Store) GetMaxProcessedID(sourceChannelID int64, mappingID string) (int64, bool, error) {
	var maxID *int64
	result := s.db.Model(&models.ProcessedMessage{}).
		Where("source_channel_id = ? AND mapping_id = ?", sourceChannelID, mappingID).
		Select("MAX(message_id)").
		Scan(&maxID)
	if result.Error != nil {
		return 0, false, fmt.Errorf("failed to get max processed id: %w", result.Error)
	}
	if maxID == nil {
		return 0, false, nil
	}
	return *maxID, true, nil
}

// GetUnposted returns unposted records for a mapping, oldest first.
func (s *Store) GetUnposted(mappingID string, limit int) ([]models.ProcessedMessage, error) {
	var messages []models.ProcessedMessage
	result := s.db.Where("posted = ? AND mapping_id = ?", false, mappingID).
		Order("received_at ASC").
		Limit(limit).
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get unposted messages: %w", result.Error)
	}
	return messages, nil
}

// GetUnpostedByID returns the unposted record for a specific message id,
// or nil if no such record exists.
func (s *Store) GetUnpostedByID(mappingID string, messageID int64) (*models.ProcessedMessage, error) {
	var msg models.ProcessedMessage
	result := s.db.Where("posted = ? AND mapping_id = ? AND message_id = ?", false, mappingID, messageID).
		First(&msg)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get unposted message %d: %w", messageID, result.Error)
	}
	return &msg, nil
}

// MarkPosted marks a record as posted. Calling it on an already-posted
// or absent record is a no-op, not an error; the first posted timestamp
// wins.
func (s *Store) MarkPosted(messageID int64, mappingID string, postedAt time.Time) error {
	result := s.db.Model(&models.ProcessedMessage{}).
		Where("message_id = ? AND mapping_id = ? AND posted = ?", messageID, mappingID, false).
		Updates(map[string]interface{}{
			"posted":    true,
			"posted_at": postedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark message %d as posted: %w", messageID, result.Error)
	}
	return nil
}

// CountUnposted returns the number of processed-but-unposted records.
func (s *Store) CountUnposted() (int64, error) {
	var count int64
	result := s.db.Model(&models.ProcessedMessage{}).Where("posted = ?", false).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count unposted messages: %w", result.Error)
	}
	return count, nil
}

// ListMessages returns recent processed records, newest first,
// optionally filtered by mapping and posted state.
func (s *Store) ListMessages(mappingID string, posted *bool, limit int) ([]models.ProcessedMessage, error) {
	query := s.db.Model(&models.ProcessedMessage{})
	if mappingID != "" {
		query = query.Where("mapping_id = ?", mappingID)
	}
	if posted != nil {
		query = query.Where("posted = ?", *posted)
	}

	var messages []models.ProcessedMessage
	result := query.Order("received_at DESC").Limit(limit).Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list messages: %w", result.Error)
	}
	return messages, nil
}

// LogAttempt records a processing/forwarding attempt for reconciliation.
func (s *Store) LogAttempt(messageID int64, mappingID, stage, status, errorMsg string) error {
	log := models.ForwardLog{
		MessageID: messageID,
		MappingID: mappingID,
		Stage:     stage,
		Status:    status,
		ErrorMsg:  errorMsg,
		CreatedAt: time.Now(),
	}
	result := s.db.Create(&log)
	if result.Error != nil {
		return fmt.Errorf("failed to log forward attempt: %w", result.Error)
	}
	return nil
}

// ListLogs returns recent forward logs, newest first, optionally
// filtered by mapping.
func (s *Store) ListLogs(mappingID string, limit int) ([]models.ForwardLog, error) {
	query := s.db.Model(&models.ForwardLog{})
	if mappingID != "" {
		query = query.Where("mapping_id = ?", mappingID)
	}

	var logs []models.ForwardLog
	result := query.Order("created_at DESC").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list forward logs: %w", result.Error)
	}
	return logs, nil
}
