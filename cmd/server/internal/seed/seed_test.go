package seed

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/repository"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/slug"
)

type fakeService struct {
	mu   sync.Mutex
	docs map[string]models.Roadmap
}

func newFakeService() *fakeService {
	return &fakeService{docs: map[string]models.Roadmap{}}
}

func (s *fakeService) Get(_ context.Context, id string) (*models.Roadmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (s *fakeService) Create(_ context.Context, req models.RoadmapCreate) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := slug.Make(req.Title)
	if _, exists := s.docs[id]; exists {
		return "", repository.ErrDuplicateID
	}
	s.docs[id] = models.Roadmap{ID: id, Title: req.Title, Topics: req.Topics}
	return id, nil
}

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roadmaps.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

const seedYAML = `roadmaps:
  - title: Learn Go
    description: a practical path
    total_duration_weeks: 4
    topics:
      - title: Basics
        tasks:
          - task: Read the tour
            duration_minutes: 60
  - title: Learn Rust
    description: fearless concurrency
`

func TestLoadCreatesRoadmaps(t *testing.T) {
	svc := newFakeService()
	path := writeSeedFile(t, seedYAML)

	n, err := Load(context.Background(), path, svc, slog.Default())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 created, got %d", n)
	}

	rm, err := svc.Get(context.Background(), "learn-go")
	if err != nil {
		t.Fatalf("seeded roadmap missing: %v", err)
	}
	if len(rm.Topics) != 1 || rm.Topics[0].Title != "Basics" {
		t.Errorf("topics not parsed from YAML: %+v", rm.Topics)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	svc := newFakeService()
	path := writeSeedFile(t, seedYAML)
	ctx := context.Background()

	if _, err := Load(ctx, path, svc, slog.Default()); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	n, err := Load(ctx, path, svc, slog.Default())
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second load should create nothing, got %d", n)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(context.Background(), "/nonexistent/seed.yaml", newFakeService(), slog.Default()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsUntitledEntry(t *testing.T) {
	path := writeSeedFile(t, "roadmaps:\n  - description: no title here\n")
	if _, err := Load(context.Background(), path, newFakeService(), slog.Default()); err == nil {
		t.Fatal("expected validation error for entry without title")
	}
}
