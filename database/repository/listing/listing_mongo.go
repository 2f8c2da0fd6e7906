package listingRepo

import (
	"context"
	"fmt"
	"time"

	"localpro/database"
	"localpro/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo creates a new instance of ListingRepository using MongoDB.
func NewMongoListingRepo() ListingRepository {
	coll := database.Collection("listings")
	repo := &MongoListingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// listingHitDoc is the explicit decode target for the spatial pipeline.
type listingHitDoc struct {
	Listing  models.Listing  `bson:",inline"`
	Distance float64         `bson:"distance"`
	Provider models.Provider `bson:"provider"`
}

// NearestWithinRadius runs a $geoNear pipeline bounded by radiusMeters,
// restricted to active listings matching the filter, and joins each listing
// to its provider. $geoNear sorts ascending by distance, so no extra sort
// stage is needed.
func (r *MongoListingRepo) NearestWithinRadius(ctx context.Context, point models.GeoPoint, radiusMeters float64, filter SpatialFilter) ([]ListingHit, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if !point.Valid() {
		return nil, fmt.Errorf("invalid query point")
	}

	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: point.Coordinates},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "spherical", Value: true},
			{Key: "maxDistance", Value: radiusMeters},
			{Key: "key", Value: "locationGeo"},
		}}},
	}

	matchFilter := bson.M{"active": true}
	if filter.CategoryID != "" {
		matchFilter["categoryId"] = filter.CategoryID
	}
	if filter.SubCategoryID != "" {
		matchFilter["subCategoryId"] = filter.SubCategoryID
	}
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: matchFilter}})

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "providers"},
			{Key: "localField", Value: "providerId"},
			{Key: "foreignField", Value: "id"},
			{Key: "as", Value: "provider"},
		}}},
		bson.D{{Key: "$unwind", Value: "$provider"}},
	)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("spatial query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []listingHitDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode spatial results: %w", err)
	}

	hits := make([]ListingHit, 0, len(docs))
	for _, d := range docs {
		hits = append(hits, ListingHit{
			Listing:        d.Listing,
			Provider:       d.Provider,
			DistanceMeters: d.Distance,
		})
	}
	return hits, nil
}

// GetByID retrieves a listing by its unique ID.
func (r *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var l models.Listing
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch listing %s: %w", id, err)
	}
	return &l, nil
}

// Insert persists a new listing.
func (r *MongoListingRepo) Insert(ctx context.Context, l models.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}
