// Package audit stores pipeline events in postgres through GORM.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recorder persists pipeline events
type Recorder interface {
	Record(ctx context.Context, event *PipelineEvent) error
}

// NopRecorder drops every event. Used when no database is configured.
type NopRecorder struct{}

// Record does nothing
func (NopRecorder) Record(context.Context, *PipelineEvent) error { return nil }

// Service provides pipeline event storage
type Service struct {
	db *gorm.DB
}

// NewService creates a new audit service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record stores an event, filling in ID and CreatedAt when unset
func (s *Service) Record(ctx context.Context, event *PipelineEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to record pipeline event: %w", err)
	}
	return nil
}

func (s *Service) filtered(ctx context.Context, filter EventFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&PipelineEvent{})

	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	return query
}

// GetEvents retrieves pipeline events with filtering, newest first
func (s *Service) GetEvents(ctx context.Context, filter EventFilter) (*EventResponse, error) {
	var totalCount int64
	if err := s.filtered(ctx, filter).Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count pipeline events: %w", err)
	}

	// Apply pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	if filter.PageSize > 200 {
		filter.PageSize = 200
	}

	offset := (filter.Page - 1) * filter.PageSize

	var events []PipelineEvent
	if err := s.filtered(ctx, filter).
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to get pipeline events: %w", err)
	}

	totalPages := int(totalCount) / filter.PageSize
	if int(totalCount)%filter.PageSize > 0 {
		totalPages++
	}

	return &EventResponse{
		Events:     events,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// DeleteOldEvents deletes events older than daysToKeep days
func (s *Service) DeleteOldEvents(ctx context.Context, daysToKeep int) (int64, error) {
	if daysToKeep < 1 {
		return 0, fmt.Errorf("daysToKeep must be at least 1")
	}

	cutoffDate := time.Now().AddDate(0, 0, -daysToKeep)

	result := s.db.WithContext(ctx).Where("created_at < ?", cutoffDate).Delete(&PipelineEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old pipeline events: %w", result.Error)
	}

	log.Info().Int64("deleted", result.RowsAffected).Int("days_to_keep", daysToKeep).Msg("old pipeline events deleted")
	return result.RowsAffected, nil
}

// ToJSON converts a metadata value for PipelineEvent.Metadata
func ToJSON(value interface{}) (datatypes.JSON, error) {
	if value == nil {
		return nil, nil
	}

	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(bytes), nil
}
