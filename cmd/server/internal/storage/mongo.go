package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/pkg/metrics"
)

const (
	roadmapCollection = "roadmaps"
	userCollection    = "users"
)

// Client holds the Mongo connection and hands out typed stores.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Client{client: cli, db: cli.Database(dbName)}, nil
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Roadmaps returns the roadmap store.
func (c *Client) Roadmaps() *RoadmapStore {
	return &RoadmapStore{coll: c.db.Collection(roadmapCollection)}
}

// Users returns the user store.
func (c *Client) Users() *UserStore {
	return &UserStore{coll: c.db.Collection(userCollection)}
}

// observe records metrics for one store round trip.
func observe(op string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, ErrNoDocuments) {
		status = "error"
	}
	metrics.RecordStoreOperation(op, status)
	metrics.RecordStoreDuration(op, time.Since(start).Seconds())
}

// RoadmapStore persists roadmap documents keyed by slug identifier with
// embedded topic/task arrays.
type RoadmapStore struct {
	coll *mongo.Collection
}

// Get fetches one roadmap by id.
func (s *RoadmapStore) Get(ctx context.Context, id string) (rm *models.Roadmap, err error) {
	start := time.Now()
	defer func() { observe("get", start, err) }()

	var doc models.Roadmap
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("find roadmap %q: %w", id, err)
	}
	return &doc, nil
}

// Exists reports whether a roadmap with the given id is present.
func (s *RoadmapStore) Exists(ctx context.Context, id string) (ok bool, err error) {
	start := time.Now()
	defer func() { observe("exists", start, err) }()

	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count roadmap %q: %w", id, err)
	}
	return n > 0, nil
}

// List returns one page of roadmaps ordered by title, plus the total
// count for the filter. An empty query matches everything; otherwise the
// query is a case-insensitive title substring match.
func (s *RoadmapStore) List(ctx context.Context, skip, limit int64, query string) (docs []models.Roadmap, total int64, err error) {
	start := time.Now()
	defer func() { observe("list", start, err) }()

	filter := bson.M{}
	if query != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}
	}

	total, err = s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count roadmaps: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list roadmaps: %w", err)
	}
	defer cur.Close(ctx)

	docs = []models.Roadmap{}
	if err = cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode roadmaps: %w", err)
	}
	return docs, total, nil
}

// IDs returns the identifiers of every roadmap, ordered by title.
func (s *RoadmapStore) IDs(ctx context.Context) (ids []string, err error) {
	start := time.Now()
	defer func() { observe("ids", start, err) }()

	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetProjection(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list roadmap ids: %w", err)
	}
	defer cur.Close(ctx)

	ids = []string{}
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err = cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode roadmap id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err = cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate roadmap ids: %w", err)
	}
	return ids, nil
}

// BulkInsert writes roadmaps through ordered BulkWrite calls, splitting
// into batches of at most MaxBatchOps operations.
func (s *RoadmapStore) BulkInsert(ctx context.Context, docs []models.Roadmap) (err error) {
	start := time.Now()
	defer func() { observe("bulk_write", start, err) }()

	writes := make([]mongo.WriteModel, 0, len(docs))
	for i := range docs {
		writes = append(writes, mongo.NewInsertOneModel().SetDocument(docs[i]))
	}

	for _, batch := range chunkWriteModels(writes, MaxBatchOps) {
		_, err = s.coll.BulkWrite(ctx, batch, options.BulkWrite().SetOrdered(true))
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("bulk insert roadmaps: %w", err)
		}
	}
	return nil
}

// Replace overwrites the roadmap with the given id.
func (s *RoadmapStore) Replace(ctx context.Context, id string, rm models.Roadmap) (err error) {
	start := time.Now()
	defer func() { observe("replace", start, err) }()

	rm.ID = id
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, rm)
	if err != nil {
		return fmt.Errorf("replace roadmap %q: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

// Delete removes the roadmap with the given id.
func (s *RoadmapStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe("delete", start, err) }()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete roadmap %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

// chunkWriteModels splits writes into slices of at most size elements.
func chunkWriteModels(writes []mongo.WriteModel, size int) [][]mongo.WriteModel {
	if size <= 0 || len(writes) == 0 {
		return nil
	}
	chunks := make([][]mongo.WriteModel, 0, (len(writes)+size-1)/size)
	for start := 0; start < len(writes); start += size {
		end := start + size
		if end > len(writes) {
			end = len(writes)
		}
		chunks = append(chunks, writes[start:end])
	}
	return chunks
}
