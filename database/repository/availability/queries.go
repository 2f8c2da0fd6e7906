package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"localpro/models"

	"go.mongodb.org/mongo-driver/bson"
)

// FindActiveOverlapping uses strict comparisons so adjacent half-open
// windows (one ending exactly where the next begins) never count as overlap.
func (r *MongoAvailabilityRepo) FindActiveOverlapping(ctx context.Context, listingID string, start, end time.Time, excludeID string) ([]models.Availability, error) {
	filter := bson.M{
		"listingId": listingID,
		"active":    true,
		"startDate": bson.M{"$lt": end},
		"endDate":   bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return r.findAll(ctx, filter)
}

// FindActiveIntersecting matches records whose half-open window covers at
// least one day of the inclusive [start, end] range.
func (r *MongoAvailabilityRepo) FindActiveIntersecting(ctx context.Context, listingID string, start, end time.Time) ([]models.Availability, error) {
	filter := bson.M{
		"listingId": listingID,
		"active":    true,
		"startDate": bson.M{"$lte": end},
		"endDate":   bson.M{"$gt": start},
	}
	return r.findAll(ctx, filter)
}

func (r *MongoAvailabilityRepo) findAll(ctx context.Context, filter bson.M) ([]models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query availabilities: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Availability
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode availabilities: %w", err)
	}
	return out, nil
}
