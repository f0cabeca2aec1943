package services

import (
	"context"
	"fmt"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/repository"
)

// TopicService exposes topic and task sub-resources of a roadmap. Topics
// and tasks have no independent lifecycle, so every mutation is a
// read-modify-write of the owning roadmap document (last writer wins).
type TopicService struct {
	repo RoadmapRepo
}

// NewTopicService creates the service.
func NewTopicService(repo RoadmapRepo) *TopicService {
	return &TopicService{repo: repo}
}

// Topics returns all topics of a roadmap.
func (s *TopicService) Topics(ctx context.Context, roadmapID string) ([]models.Topic, error) {
	rm, err := s.repo.Get(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	return rm.Topics, nil
}

// Tasks returns all tasks of one topic.
func (s *TopicService) Tasks(ctx context.Context, roadmapID, topicID string) ([]models.Task, error) {
	rm, err := s.repo.Get(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	for _, topic := range rm.Topics {
		if topic.ID == topicID {
			return topic.Tasks, nil
		}
	}
	return nil, fmt.Errorf("topic %q: %w", topicID, repository.ErrNotFound)
}

// UpdateTopic replaces one topic inside its roadmap. The topic id is
// stable; the incoming payload's id is ignored.
func (s *TopicService) UpdateTopic(ctx context.Context, roadmapID, topicID string, topic models.Topic) error {
	if err := validateTopic(0, topic); err != nil {
		return err
	}

	rm, err := s.repo.Get(ctx, roadmapID)
	if err != nil {
		return err
	}
	for i := range rm.Topics {
		if rm.Topics[i].ID == topicID {
			topic.ID = topicID
			rm.Topics[i] = topic
			return s.repo.Update(ctx, roadmapID, *rm)
		}
	}
	return fmt.Errorf("topic %q: %w", topicID, repository.ErrNotFound)
}

// DeleteTopic removes one topic and its tasks from the roadmap.
func (s *TopicService) DeleteTopic(ctx context.Context, roadmapID, topicID string) error {
	rm, err := s.repo.Get(ctx, roadmapID)
	if err != nil {
		return err
	}
	kept := rm.Topics[:0]
	found := false
	for _, topic := range rm.Topics {
		if topic.ID == topicID {
			found = true
			continue
		}
		kept = append(kept, topic)
	}
	if !found {
		return fmt.Errorf("topic %q: %w", topicID, repository.ErrNotFound)
	}
	rm.Topics = kept
	return s.repo.Update(ctx, roadmapID, *rm)
}

// UpdateTask replaces one task inside its topic.
func (s *TopicService) UpdateTask(ctx context.Context, roadmapID, topicID, taskID string, task models.Task) error {
	if task.Task == "" {
		return fmt.Errorf("%w: task is required", repository.ErrValidation)
	}
	if task.Status != "" && !models.ValidStatus(task.Status) {
		return fmt.Errorf("%w: invalid status %q", repository.ErrValidation, task.Status)
	}

	rm, err := s.repo.Get(ctx, roadmapID)
	if err != nil {
		return err
	}
	for i := range rm.Topics {
		if rm.Topics[i].ID != topicID {
			continue
		}
		for j := range rm.Topics[i].Tasks {
			if rm.Topics[i].Tasks[j].ID == taskID {
				task.ID = taskID
				task.TopicID = topicID
				rm.Topics[i].Tasks[j] = task
				return s.repo.Update(ctx, roadmapID, *rm)
			}
		}
		return fmt.Errorf("task %q: %w", taskID, repository.ErrNotFound)
	}
	return fmt.Errorf("topic %q: %w", topicID, repository.ErrNotFound)
}

// DeleteTask removes one task from its topic.
func (s *TopicService) DeleteTask(ctx context.Context, roadmapID, topicID, taskID string) error {
	rm, err := s.repo.Get(ctx, roadmapID)
	if err != nil {
		return err
	}
	for i := range rm.Topics {
		if rm.Topics[i].ID != topicID {
			continue
		}
		tasks := rm.Topics[i].Tasks
		kept := tasks[:0]
		found := false
		for _, task := range tasks {
			if task.ID == taskID {
				found = true
				continue
			}
			kept = append(kept, task)
		}
		if !found {
			return fmt.Errorf("task %q: %w", taskID, repository.ErrNotFound)
		}
		rm.Topics[i].Tasks = kept
		return s.repo.Update(ctx, roadmapID, *rm)
	}
	return fmt.Errorf("topic %q: %w", topicID, repository.ErrNotFound)
}
