package matchRepo

import (
	"context"
	"fmt"
	"time"

	"localpro/database"
	"localpro/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMatchRepo implements MatchRepository using MongoDB.
type MongoMatchRepo struct {
	requests   *mongo.Collection
	candidates *mongo.Collection
}

// NewMongoMatchRepo creates a new instance of MatchRepository using MongoDB.
func NewMongoMatchRepo() MatchRepository {
	repo := &MongoMatchRepo{
		requests:   database.Collection("match_requests"),
		candidates: database.Collection("match_candidates"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoMatchRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Sparse unique index: requests without a key never collide; requests
	// carrying the same key collide exactly once, which is what turns the
	// idempotency race into a detect-and-replay protocol.
	reqIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "idempotencyKey", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
	}
	if _, err := r.requests.Indexes().CreateMany(ctx, reqIndexes); err != nil {
		return fmt.Errorf("failed to create request indexes: %w", err)
	}

	candIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "requestId", Value: 1}, {Key: "rankOrder", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}}},
	}
	if _, err := r.candidates.Indexes().CreateMany(ctx, candIndexes); err != nil {
		return fmt.Errorf("failed to create candidate indexes: %w", err)
	}
	return nil
}

func (r *MongoMatchRepo) InsertRequest(ctx context.Context, req models.MatchRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.requests.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) && req.IdempotencyKey != "" {
			return ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to insert match request: %w", err)
	}
	return nil
}

func (r *MongoMatchRepo) InsertCandidates(ctx context.Context, candidates []models.MatchCandidate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(candidates) == 0 {
		return nil
	}
	docs := make([]interface{}, len(candidates))
	for i, c := range candidates {
		docs[i] = c
	}
	ordered := true
	if _, err := r.candidates.InsertMany(ctx, docs, &options.InsertManyOptions{Ordered: &ordered}); err != nil {
		return fmt.Errorf("failed to insert match candidates: %w", err)
	}
	return nil
}

func (r *MongoMatchRepo) GetRequestByID(ctx context.Context, id string) (*models.MatchRequest, error) {
	return r.findRequest(ctx, bson.M{"id": id})
}

func (r *MongoMatchRepo) GetRequestByIdempotencyKey(ctx context.Context, key string) (*models.MatchRequest, error) {
	return r.findRequest(ctx, bson.M{"idempotencyKey": key})
}

func (r *MongoMatchRepo) findRequest(ctx context.Context, filter bson.M) (*models.MatchRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.MatchRequest
	if err := r.requests.FindOne(ctx, filter).Decode(&req); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch match request: %w", err)
	}
	return &req, nil
}

func (r *MongoMatchRepo) GetCandidates(ctx context.Context, requestID string) ([]models.MatchCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "rankOrder", Value: 1}})
	cursor, err := r.candidates.Find(ctx, bson.M{"requestId": requestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match candidates: %w", err)
	}
	defer cursor.Close(ctx)

	candidates := []models.MatchCandidate{}
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode match candidates: %w", err)
	}
	return candidates, nil
}

// FindInconsistent looks up CREATED requests older than cutoff that own no
// candidate rows. These are the survivors of a crash between the request
// write and the candidate write.
func (r *MongoMatchRepo) FindInconsistent(ctx context.Context, cutoff time.Time) ([]models.MatchRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":    models.MatchStatusCreated,
			"createdAt": bson.M{"$lt": cutoff},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "match_candidates"},
			{Key: "localField", Value: "id"},
			{Key: "foreignField", Value: "requestId"},
			{Key: "as", Value: "candidates"},
		}}},
		{{Key: "$match", Value: bson.M{"candidates": bson.M{"$size": 0}}}},
		{{Key: "$project", Value: bson.M{"candidates": 0}}},
	}

	cursor, err := r.requests.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("inconsistency scan failed: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.MatchRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode inconsistent requests: %w", err)
	}
	return reqs, nil
}

func (r *MongoMatchRepo) MarkNoCoverage(ctx context.Context, requestID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.requests.UpdateOne(ctx,
		bson.M{"id": requestID, "status": models.MatchStatusCreated},
		bson.M{"$set": bson.M{"status": models.MatchStatusNoCoverage}},
	)
	if err != nil {
		return fmt.Errorf("failed to reconcile match request %s: %w", requestID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
