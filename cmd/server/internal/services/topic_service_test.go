package services

import (
	"context"
	"errors"
	"testing"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/repository"
)

func seedRoadmap(t *testing.T, repo *mockRepo) string {
	t.Helper()
	id, err := repo.Create(context.Background(), models.Roadmap{
		Title: "Learn Go",
		Topics: []models.Topic{
			{
				Title: "Basics",
				Tasks: []models.Task{
					{Task: "Read the tour", DurationMinutes: 60},
					{Task: "Write hello world", DurationMinutes: 15},
				},
			},
			{Title: "Concurrency"},
		},
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return id
}

func TestTopicServiceTopics(t *testing.T) {
	repo := newMockRepo()
	svc := NewTopicService(repo)
	id := seedRoadmap(t, repo)

	topics, err := svc.Topics(context.Background(), id)
	if err != nil {
		t.Fatalf("Topics failed: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}

	if _, err := svc.Topics(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing roadmap, got %v", err)
	}
}

func TestTopicServiceTasks(t *testing.T) {
	repo := newMockRepo()
	svc := NewTopicService(repo)
	id := seedRoadmap(t, repo)

	tasks, err := svc.Tasks(context.Background(), id, "basics")
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	if _, err := svc.Tasks(context.Background(), id, "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing topic, got %v", err)
	}
}

func TestTopicServiceUpdateTopic(t *testing.T) {
	repo := newMockRepo()
	svc := NewTopicService(repo)
	id := seedRoadmap(t, repo)
	ctx := context.Background()

	err := svc.UpdateTopic(ctx, id, "basics", models.Topic{
		Title:        "Go Basics",
		DurationDays: 10,
	})
	if err != nil {
		t.Fatalf("UpdateTopic failed: %v", err)
	}

	topics, _ := svc.Topics(ctx, id)
	if topics[0].Title != "Go Basics" || topics[0].DurationDays != 10 {
		t.Errorf("topic not updated: %+v", topics[0])
	}
	if topics[0].ID != "basics" {
		t.Errorf("topic id must be stable across updates, got %q", topics[0].ID)
	}

	err = svc.UpdateTopic(ctx, id, "missing", models.Topic{Title: "X"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	err = svc.UpdateTopic(ctx, id, "basics", models.Topic{})
	if !errors.Is(err, repository.ErrValidation) {
		t.Errorf("expected ErrValidation for empty title, got %v", err)
	}
}

func TestTopicServiceDeleteTopic(t *testing.T) {
	repo := newMockRepo()
	svc := NewTopicService(repo)
	id := seedRoadmap(t, repo)
	ctx := context.Background()

	if err := svc.DeleteTopic(ctx, id, "concurrency"); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}
	topics, _ := svc.Topics(ctx, id)
	if len(topics) != 1 || topics[0].ID != "basics" {
		t.Errorf("unexpected topics after delete: %+v", topics)
	}

	if err := svc.DeleteTopic(ctx, id, "concurrency"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("double delete should be NotFound, got %v", err)
	}
}

func TestTopicServiceUpdateTask(t *testing.T) {
	repo := newMockRepo()
	svc := NewTopicService(repo)
	id := seedRoadmap(t, repo)
	ctx := context.Background()

	err := svc.UpdateTask(ctx, id, "basics", "read-the-tour", models.Task{
		Task:   "Read the tour",
		Status: models.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	tasks, _ := svc.Tasks(ctx, id, "basics")
	if tasks[0].Status != models.StatusCompleted {
		t.Errorf("task status not updated: %+v", tasks[0])
	}
	if tasks[0].TopicID != "basics" {
		t.Errorf("task lost its topic back-reference: %+v", tasks[0])
	}

	err = svc.UpdateTask(ctx, id, "basics", "missing", models.Task{Task: "X"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing task, got %v", err)
	}

	err = svc.UpdateTask(ctx, id, "basics", "read-the-tour", models.Task{Task: "X", Status: "finished"})
	if !errors.Is(err, repository.ErrValidation) {
		t.Errorf("expected ErrValidation for bad status, got %v", err)
	}
}

func TestTopicServiceDeleteTask(t *testing.T) {
	repo := newMockRepo()
	svc := NewTopicService(repo)
	id := seedRoadmap(t, repo)
	ctx := context.Background()

	if err := svc.DeleteTask(ctx, id, "basics", "write-hello-world"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	tasks, _ := svc.Tasks(ctx, id, "basics")
	if len(tasks) != 1 || tasks[0].ID != "read-the-tour" {
		t.Errorf("unexpected tasks after delete: %+v", tasks)
	}

	if err := svc.DeleteTask(ctx, id, "basics", "write-hello-world"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("double delete should be NotFound, got %v", err)
	}
}
