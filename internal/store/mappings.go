package store

import (
	"fmt"

	"gorm.io/gorm"

	"channel-relay-go/internal/models"
)

// ActiveMappings returns all active channel mappings. The processor
// reads this on every cycle and never mutates mappings.
func (s *Store) ActiveMappings() ([]models.ChannelMapping, error) {
	var mappings []models.ChannelMapping
	result := s.db.Where("active = ?", true).Find(&mappings)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get active mappings: %w", result.Error)
	}
	return mappings, nil
}

// GetAllMappings returns all channel mappings
func (s *Store) GetAllMappings() ([]models.ChannelMapping, error) {
	var mappings []models.ChannelMapping
	result := s.db.Find(&mappings)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get mappings: %w", result.Error)
	}
	return mappings, nil
}

// GetMapping returns the mapping with the given mapping id, or nil if
// no such mapping exists.
func (s *Store) GetMapping(mappingID string) (*models.ChannelMapping, error) {
	var mapping models.ChannelMapping
	result := s.db.Where("mapping_id = ?", mappingID).First(&mapping)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get mapping %s: %w", mappingID, result.Error)
	}
	return &mapping, nil
}

// CreateMapping creates a new channel mapping
func (s *Store) CreateMapping(mapping *models.ChannelMapping) error {
	result := s.db.Create(mapping)
	if result.Error != nil {
		return fmt.Errorf("failed to create mapping: %w", result.Error)
	}
	return nil
}

// UpdateMapping updates an existing channel mapping
func (s *Store) UpdateMapping(mapping *models.ChannelMapping) error {
	result := s.db.Save(mapping)
	if result.Error != nil {
		return fmt.Errorf("failed to update mapping: %w", result.Error)
	}
	return nil
}

// DeleteMapping soft-deletes the mapping with the given mapping id
func (s *Store) DeleteMapping(mappingID string) error {
	result := s.db.Where("mapping_id = ?", mappingID).Delete(&models.ChannelMapping{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete mapping %s: %w", mappingID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountMappings returns total and active mapping counts
func (s *Store) CountMappings() (total int64, active int64, err error) {
	if result := s.db.Model(&models.ChannelMapping{}).Count(&total); result.Error != nil {
		return 0, 0, fmt.Errorf("failed to count mappings: %w", result.Error)
	}
	if result := s.db.Model(&models.ChannelMapping{}).Where("active = ?", true).Count(&active); result.Error != nil {
		return 0, 0, fmt.Errorf("failed to count active mappings: %w", result.Error)
	}
	return total, active, nil
}
