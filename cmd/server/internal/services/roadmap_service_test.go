package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/repository"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/slug"
)

// mockRepo records calls and serves from a map; identifier generation is
// a plain slug without collision handling, which is enough here.
type mockRepo struct {
	docs      map[string]models.Roadmap
	lastPage  int
	lastSize  int
	lastQuery string
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: map[string]models.Roadmap{}}
}

func (m *mockRepo) Get(_ context.Context, id string) (*models.Roadmap, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (m *mockRepo) List(_ context.Context, page, pageSize int, query string) (*models.RoadmapPage, error) {
	m.lastPage, m.lastSize, m.lastQuery = page, pageSize, query
	return &models.RoadmapPage{Page: page, PageSize: pageSize}, nil
}

func (m *mockRepo) IDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockRepo) Create(_ context.Context, rm models.Roadmap) (string, error) {
	id := slug.Make(rm.Title)
	rm.ID = id
	for i := range rm.Topics {
		if rm.Topics[i].ID == "" {
			rm.Topics[i].ID = slug.Make(rm.Topics[i].Title)
		}
		for j := range rm.Topics[i].Tasks {
			if rm.Topics[i].Tasks[j].ID == "" {
				rm.Topics[i].Tasks[j].ID = slug.Make(rm.Topics[i].Tasks[j].Task)
			}
		}
	}
	m.docs[id] = rm
	return id, nil
}

func (m *mockRepo) Update(_ context.Context, id string, rm models.Roadmap) error {
	if _, ok := m.docs[id]; !ok {
		return repository.ErrNotFound
	}
	rm.ID = id
	m.docs[id] = rm
	return nil
}

func (m *mockRepo) Patch(_ context.Context, id string, patch models.RoadmapUpdate) error {
	doc, ok := m.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Description != nil {
		doc.Description = *patch.Description
	}
	m.docs[id] = doc
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *mockRepo) DeleteAll(context.Context) error {
	m.docs = map[string]models.Roadmap{}
	return nil
}

func validCreate() models.RoadmapCreate {
	return models.RoadmapCreate{
		Title:              "Learn Go",
		Description:        "a practical path",
		TotalDurationWeeks: 4,
		Topics: []models.Topic{
			{Title: "Basics", Tasks: []models.Task{{Task: "Read the tour", DurationMinutes: 60}}},
		},
	}
}

func TestRoadmapServiceCreateValid(t *testing.T) {
	svc := NewRoadmapService(newMockRepo())

	id, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id != "learn-go" {
		t.Errorf("unexpected id %q", id)
	}
}

func TestRoadmapServiceCreateValidation(t *testing.T) {
	svc := NewRoadmapService(newMockRepo())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.RoadmapCreate)
		substr string
	}{
		{"empty-title", func(r *models.RoadmapCreate) { r.Title = "" }, "title is required"},
		{"overlong-title", func(r *models.RoadmapCreate) { r.Title = strings.Repeat("x", maxTitleLen+1) }, "title exceeds"},
		{"negative-weeks", func(r *models.RoadmapCreate) { r.TotalDurationWeeks = -1 }, "total_duration_weeks"},
		{"topic-missing-title", func(r *models.RoadmapCreate) { r.Topics[0].Title = "" }, "topics[0].title"},
		{"task-missing-text", func(r *models.RoadmapCreate) { r.Topics[0].Tasks[0].Task = "" }, "tasks[0].task"},
		{"negative-minutes", func(r *models.RoadmapCreate) { r.Topics[0].Tasks[0].DurationMinutes = -5 }, "duration_minutes"},
		{"bad-status", func(r *models.RoadmapCreate) { r.Topics[0].Tasks[0].Status = "done" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			_, err := svc.Create(ctx, req)
			if !errors.Is(err, repository.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q should mention %q", err, tt.substr)
			}
		})
	}
}

func TestRoadmapServiceListClampsPagination(t *testing.T) {
	repo := newMockRepo()
	svc := NewRoadmapService(repo)
	ctx := context.Background()

	if _, err := svc.List(ctx, -3, 0, "go"); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if repo.lastPage != 1 || repo.lastSize != defaultPageSize {
		t.Errorf("pagination not clamped: page=%d size=%d", repo.lastPage, repo.lastSize)
	}

	if _, err := svc.List(ctx, 2, 10000, ""); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if repo.lastSize != maxPageSize {
		t.Errorf("page size not capped: %d", repo.lastSize)
	}
}

func TestRoadmapServicePatchValidation(t *testing.T) {
	repo := newMockRepo()
	svc := NewRoadmapService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	empty := ""
	if err := svc.Patch(ctx, id, models.RoadmapUpdate{Title: &empty}); !errors.Is(err, repository.ErrValidation) {
		t.Errorf("empty patched title must be rejected, got %v", err)
	}

	desc := "updated description"
	if err := svc.Patch(ctx, id, models.RoadmapUpdate{Description: &desc}); err != nil {
		t.Fatalf("valid Patch failed: %v", err)
	}
	if repo.docs[id].Description != desc {
		t.Errorf("patch not applied: %q", repo.docs[id].Description)
	}
}

func TestRoadmapServicePassesRepositoryErrorsThrough(t *testing.T) {
	svc := NewRoadmapService(newMockRepo())
	ctx := context.Background()

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, ""); !errors.Is(err, repository.ErrValidation) {
		t.Errorf("empty id must be a validation error, got %v", err)
	}
}

func TestRoadmapServiceDeleteAll(t *testing.T) {
	repo := newMockRepo()
	svc := NewRoadmapService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req := validCreate()
		req.Title = fmt.Sprintf("Roadmap %d", i)
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	if err := svc.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	ids, _ := svc.IDs(ctx)
	if len(ids) != 0 {
		t.Errorf("expected no ids, got %v", ids)
	}
}
