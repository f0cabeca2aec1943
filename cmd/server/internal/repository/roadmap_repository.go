// Package repository mediates between the document store and the cache:
// cache-aside reads, invalidate-after-write mutations, slug id generation.
// Cache failures are absorbed here (fail-open); store failures surface as
// ErrStoreUnavailable.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/cache"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/slug"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/storage"
	"github.com/roadmaphq/roadmap-api/pkg/metrics"
)

// maxIDAttempts bounds the slug collision retry loop in Create.
const maxIDAttempts = 3

// deleteAllConcurrency caps the fan-out of DeleteAll.
const deleteAllConcurrency = 8

// Store is the document-store surface the repository depends on.
// *storage.RoadmapStore implements it; tests plug in a fake.
type Store interface {
	Get(ctx context.Context, id string) (*models.Roadmap, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, skip, limit int64, query string) ([]models.Roadmap, int64, error)
	IDs(ctx context.Context) ([]string, error)
	BulkInsert(ctx context.Context, docs []models.Roadmap) error
	Replace(ctx context.Context, id string, rm models.Roadmap) error
	Delete(ctx context.Context, id string) error
}

// SuffixFunc produces the short random suffix appended to a slug when the
// plain slug is already taken.
type SuffixFunc func() string

func defaultSuffix() string {
	return uuid.NewString()[:8]
}

// RoadmapRepository is the cache-aside layer over the roadmap collection.
type RoadmapRepository struct {
	store  Store
	cache  cache.Cache
	ttl    time.Duration
	suffix SuffixFunc
	log    *slog.Logger
}

// Option customizes a RoadmapRepository.
type Option func(*RoadmapRepository)

// WithSuffixFunc replaces the slug collision suffix generator.
func WithSuffixFunc(fn SuffixFunc) Option {
	return func(r *RoadmapRepository) { r.suffix = fn }
}

// NewRoadmapRepository wires the repository. ttl governs every cache entry
// it populates.
func NewRoadmapRepository(store Store, c cache.Cache, ttl time.Duration, log *slog.Logger, opts ...Option) *RoadmapRepository {
	r := &RoadmapRepository{
		store:  store,
		cache:  c,
		ttl:    ttl,
		suffix: defaultSuffix,
		log:    log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// Get returns one roadmap, preferring the cache. A miss populates the
// cache with the configured TTL. NotFound is never cached.
func (r *RoadmapRepository) Get(ctx context.Context, id string) (*models.Roadmap, error) {
	key := roadmapKey(id)

	if data, ok := r.cacheGet(ctx, key, "roadmap"); ok {
		var rm models.Roadmap
		if err := json.Unmarshal(data, &rm); err == nil {
			return &rm, nil
		}
		// Undecodable entry: drop it and re-read the store.
		r.cacheDelete(ctx, key)
	}

	rm, err := r.store.Get(ctx, id)
	if errors.Is(err, storage.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}

	r.cacheSet(ctx, key, rm)
	return rm, nil
}

// List returns one page of roadmaps with the same cache-aside behavior as
// Get. The key is deterministic over (page, pageSize, query).
func (r *RoadmapRepository) List(ctx context.Context, page, pageSize int, query string) (*models.RoadmapPage, error) {
	key := listKey(page, pageSize, query)

	if data, ok := r.cacheGet(ctx, key, "roadmap_list"); ok {
		var pg models.RoadmapPage
		if err := json.Unmarshal(data, &pg); err == nil {
			return &pg, nil
		}
		r.cacheDelete(ctx, key)
	}

	skip := int64(page-1) * int64(pageSize)
	docs, total, err := r.store.List(ctx, skip, int64(pageSize), query)
	if err != nil {
		return nil, storeErr(err)
	}

	pg := &models.RoadmapPage{
		Roadmaps: docs,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  int64(page)*int64(pageSize) < total,
	}
	r.cacheSet(ctx, key, pg)
	return pg, nil
}

// IDs returns every roadmap identifier. Not cached; the original read
// path streamed ids straight from the store.
func (r *RoadmapRepository) IDs(ctx context.Context) ([]string, error) {
	ids, err := r.store.IDs(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return ids, nil
}

// Create slugs the title into an identifier, retrying with a random
// suffix while the slug is taken, and persists through the batch writer.
// The cache is not populated; listing pages are invalidated since the new
// item changes them.
func (r *RoadmapRepository) Create(ctx context.Context, rm models.Roadmap) (string, error) {
	base := slug.Make(rm.Title)
	if base == "" {
		return "", fmt.Errorf("%w: title produces an empty identifier", ErrValidation)
	}

	id := base
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		exists, err := r.store.Exists(ctx, id)
		if err != nil {
			return "", storeErr(err)
		}
		if exists {
			id = base + "-" + r.suffix()
			continue
		}

		rm.ID = id
		normalize(&rm)
		err = r.store.BulkInsert(ctx, []models.Roadmap{rm})
		if errors.Is(err, storage.ErrDuplicate) {
			// Lost a race with a concurrent create; pick a new suffix.
			id = base + "-" + r.suffix()
			continue
		}
		if err != nil {
			return "", storeErr(err)
		}

		r.invalidateLists(ctx)
		return id, nil
	}

	return "", fmt.Errorf("%w: %q", ErrDuplicateID, base)
}

// Update replaces the whole document, then invalidates the exact item key
// and sweeps the listing prefix. The identifier never changes on update.
func (r *RoadmapRepository) Update(ctx context.Context, id string, rm models.Roadmap) error {
	rm.ID = id
	normalize(&rm)
	err := r.store.Replace(ctx, id, rm)
	if errors.Is(err, storage.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr(err)
	}

	r.invalidate(ctx, id)
	return nil
}

// Patch applies non-nil fields onto the stored document and writes it
// back. Reads go straight to the store so the merge never starts from a
// stale cache entry. Last writer wins.
func (r *RoadmapRepository) Patch(ctx context.Context, id string, patch models.RoadmapUpdate) error {
	current, err := r.store.Get(ctx, id)
	if errors.Is(err, storage.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr(err)
	}

	if patch.Title != nil {
		current.Title = *patch.Title
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.TotalDurationWeeks != nil {
		current.TotalDurationWeeks = *patch.TotalDurationWeeks
	}
	if patch.Topics != nil {
		current.Topics = *patch.Topics
	}

	return r.Update(ctx, id, *current)
}

// Delete removes the document, then invalidates its cache entries. A
// failed invalidation is logged and left to TTL expiry.
func (r *RoadmapRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, id)
	if errors.Is(err, storage.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr(err)
	}

	r.invalidate(ctx, id)
	return nil
}

// DeleteAll removes every roadmap, fanning the per-id deletes out over a
// bounded worker group, then sweeps both cache keyspaces.
func (r *RoadmapRepository) DeleteAll(ctx context.Context) error {
	ids, err := r.store.IDs(ctx)
	if err != nil {
		return storeErr(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteAllConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			derr := r.store.Delete(gctx, id)
			if errors.Is(derr, storage.ErrNoDocuments) {
				return nil // already gone
			}
			return derr
		})
	}
	if err := g.Wait(); err != nil {
		return storeErr(err)
	}

	r.cacheDeletePrefix(ctx, roadmapKeyPrefix)
	r.invalidateLists(ctx)
	return nil
}

// normalize fills embedded topic/task identifiers, back-references and
// defaults the way the store expects them.
func normalize(rm *models.Roadmap) {
	for i := range rm.Topics {
		topic := &rm.Topics[i]
		if topic.ID == "" {
			topic.ID = slug.Make(topic.Title)
		}
		if topic.Resources == nil {
			topic.Resources = []string{}
		}
		for j := range topic.Tasks {
			task := &topic.Tasks[j]
			if task.ID == "" {
				task.ID = slug.Make(task.Task)
			}
			if task.Status == "" {
				task.Status = models.StatusNotStarted
			}
			if task.Resources == nil {
				task.Resources = []string{}
			}
			task.TopicID = topic.ID
		}
	}
	if rm.Topics == nil {
		rm.Topics = []models.Topic{}
	}
}

// cacheGet reads a key, absorbing cache failures. The boolean is true
// only on a decodeable-looking hit.
func (r *RoadmapRepository) cacheGet(ctx context.Context, key, keyspace string) ([]byte, bool) {
	data, err := r.cache.Get(ctx, key)
	if err == nil {
		metrics.RecordCacheHit(keyspace)
		return data, true
	}
	if errors.Is(err, cache.ErrCacheMiss) {
		metrics.RecordCacheMiss(keyspace)
		return nil, false
	}
	r.log.Warn("cache get failed, falling through to store", "key", key, "error", err)
	metrics.RecordCacheDegraded("get")
	return nil, false
}

// cacheSet populates a key with the configured TTL, absorbing failures.
func (r *RoadmapRepository) cacheSet(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		r.log.Warn("cache set skipped, marshal failed", "key", key, "error", err)
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.log.Warn("cache set failed", "key", key, "error", err)
		metrics.RecordCacheDegraded("set")
	}
}

func (r *RoadmapRepository) cacheDelete(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		r.log.Warn("cache delete failed, relying on TTL expiry", "key", key, "error", err)
		metrics.RecordCacheDegraded("delete")
	}
}

func (r *RoadmapRepository) cacheDeletePrefix(ctx context.Context, prefix string) {
	if err := r.cache.DeleteByPrefix(ctx, prefix); err != nil {
		r.log.Warn("cache prefix sweep failed, relying on TTL expiry", "prefix", prefix, "error", err)
		metrics.RecordCacheDegraded("delete")
	}
}

// invalidate removes the exact item key and sweeps listing pages. Called
// only after the store confirmed the write.
func (r *RoadmapRepository) invalidate(ctx context.Context, id string) {
	r.cacheDelete(ctx, roadmapKey(id))
	r.invalidateLists(ctx)
}

// invalidateLists sweeps the listing keyspace. Listing keys are not
// individually addressable from a write, so the whole prefix goes; the
// short TTL covers any sweep failure.
func (r *RoadmapRepository) invalidateLists(ctx context.Context) {
	r.cacheDeletePrefix(ctx, listKeyPrefix)
}
