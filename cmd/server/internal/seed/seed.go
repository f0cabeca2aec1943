// Package seed loads an initial set of roadmaps from a YAML file at
// startup. Seeding is idempotent: roadmaps whose slug already exists in
// the store are skipped.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/repository"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/slug"
)

// maxConcurrentSeeds bounds the parallel creates during startup seeding.
const maxConcurrentSeeds = 4

// Service is the part of the roadmap service seeding needs.
type Service interface {
	Get(ctx context.Context, id string) (*models.Roadmap, error)
	Create(ctx context.Context, req models.RoadmapCreate) (string, error)
}

// File is the YAML document layout of a seed file.
type File struct {
	Roadmaps []models.RoadmapCreate `yaml:"roadmaps"`
}

// Load parses the seed file and creates every roadmap that does not exist
// yet. It returns the number of roadmaps created.
func Load(ctx context.Context, path string, svc Service, log *slog.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSeeds)

	created := make([]bool, len(file.Roadmaps))
	for i, req := range file.Roadmaps {
		i, req := i, req
		g.Go(func() error {
			id := slug.Make(req.Title)
			if id == "" {
				return fmt.Errorf("seed entry %d: %w: title is required", i, repository.ErrValidation)
			}

			_, err := svc.Get(ctx, id)
			if err == nil {
				log.Debug("seed_skip_existing", "id", id)
				return nil
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("seed entry %q: %w", id, err)
			}

			if _, err := svc.Create(ctx, req); err != nil {
				// Another seeder or request may have won the race.
				if errors.Is(err, repository.ErrDuplicateID) {
					log.Debug("seed_skip_existing", "id", id)
					return nil
				}
				return fmt.Errorf("seed entry %q: %w", id, err)
			}
			created[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n := 0
	for _, ok := range created {
		if ok {
			n++
		}
	}
	return n, nil
}
