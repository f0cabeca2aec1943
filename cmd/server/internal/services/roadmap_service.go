// Package services validates request payloads and translates repository
// results into domain outcomes. No caching or consistency logic lives
// here; that belongs to the repository.
package services

import (
	"context"
	"fmt"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/repository"
)

// Validation limits.
const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
	defaultPageSize   = 10
	maxPageSize       = 100
)

// RoadmapRepo is the repository surface the services depend on.
type RoadmapRepo interface {
	Get(ctx context.Context, id string) (*models.Roadmap, error)
	List(ctx context.Context, page, pageSize int, query string) (*models.RoadmapPage, error)
	IDs(ctx context.Context) ([]string, error)
	Create(ctx context.Context, rm models.Roadmap) (string, error)
	Update(ctx context.Context, id string, rm models.Roadmap) error
	Patch(ctx context.Context, id string, patch models.RoadmapUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// RoadmapService guards the repository behind payload validation.
type RoadmapService struct {
	repo RoadmapRepo
}

// NewRoadmapService creates the service.
func NewRoadmapService(repo RoadmapRepo) *RoadmapService {
	return &RoadmapService{repo: repo}
}

// Get returns one roadmap by id.
func (s *RoadmapService) Get(ctx context.Context, id string) (*models.Roadmap, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", repository.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// List returns one page, clamping pagination parameters to sane bounds.
func (s *RoadmapService) List(ctx context.Context, page, pageSize int, query string) (*models.RoadmapPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.repo.List(ctx, page, pageSize, query)
}

// IDs returns every roadmap identifier.
func (s *RoadmapService) IDs(ctx context.Context) ([]string, error) {
	return s.repo.IDs(ctx)
}

// Create validates the payload and delegates identifier generation and
// persistence to the repository.
func (s *RoadmapService) Create(ctx context.Context, req models.RoadmapCreate) (string, error) {
	rm := models.Roadmap{
		Title:              req.Title,
		Description:        req.Description,
		TotalDurationWeeks: req.TotalDurationWeeks,
		Topics:             req.Topics,
	}
	if err := validateRoadmap(rm); err != nil {
		return "", err
	}
	return s.repo.Create(ctx, rm)
}

// Update validates and fully replaces the roadmap under id.
func (s *RoadmapService) Update(ctx context.Context, id string, req models.RoadmapCreate) error {
	rm := models.Roadmap{
		Title:              req.Title,
		Description:        req.Description,
		TotalDurationWeeks: req.TotalDurationWeeks,
		Topics:             req.Topics,
	}
	if err := validateRoadmap(rm); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, rm)
}

// Patch validates only the provided fields and applies them.
func (s *RoadmapService) Patch(ctx context.Context, id string, patch models.RoadmapUpdate) error {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.Description != nil && len(*patch.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", repository.ErrValidation, maxDescriptionLen)
	}
	if patch.TotalDurationWeeks != nil && *patch.TotalDurationWeeks < 0 {
		return fmt.Errorf("%w: total_duration_weeks must not be negative", repository.ErrValidation)
	}
	if patch.Topics != nil {
		for i, topic := range *patch.Topics {
			if err := validateTopic(i, topic); err != nil {
				return err
			}
		}
	}
	return s.repo.Patch(ctx, id, patch)
}

// Delete removes one roadmap.
func (s *RoadmapService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", repository.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// DeleteAll removes every roadmap.
func (s *RoadmapService) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", repository.ErrValidation)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title exceeds %d characters", repository.ErrValidation, maxTitleLen)
	}
	return nil
}

func validateRoadmap(rm models.Roadmap) error {
	if err := validateTitle(rm.Title); err != nil {
		return err
	}
	if len(rm.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", repository.ErrValidation, maxDescriptionLen)
	}
	if rm.TotalDurationWeeks < 0 {
		return fmt.Errorf("%w: total_duration_weeks must not be negative", repository.ErrValidation)
	}
	for i, topic := range rm.Topics {
		if err := validateTopic(i, topic); err != nil {
			return err
		}
	}
	return nil
}

func validateTopic(i int, topic models.Topic) error {
	if topic.Title == "" {
		return fmt.Errorf("%w: topics[%d].title is required", repository.ErrValidation, i)
	}
	if topic.DurationDays < 0 {
		return fmt.Errorf("%w: topics[%d].duration_days must not be negative", repository.ErrValidation, i)
	}
	for j, task := range topic.Tasks {
		if task.Task == "" {
			return fmt.Errorf("%w: topics[%d].tasks[%d].task is required", repository.ErrValidation, i, j)
		}
		if task.DurationMinutes < 0 {
			return fmt.Errorf("%w: topics[%d].tasks[%d].duration_minutes must not be negative", repository.ErrValidation, i, j)
		}
		if task.Status != "" && !models.ValidStatus(task.Status) {
			return fmt.Errorf("%w: topics[%d].tasks[%d].status %q is not one of: %s, %s, %s",
				repository.ErrValidation, i, j, task.Status,
				models.StatusNotStarted, models.StatusInProgress, models.StatusCompleted)
		}
	}
	return nil
}
