package availabilityRepo

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

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo creates a new instance of AvailabilityRepository using MongoDB.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	repo := &MongoAvailabilityRepo{coll: database.Collection("availabilities")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoAvailabilityRepo) Insert(ctx context.Context, a models.Availability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to insert availability: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) GetByID(ctx context.Context, id string) (*models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a models.Availability
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch availability %s: %w", id, err)
	}
	return &a, nil
}

func (r *MongoAvailabilityRepo) Update(ctx context.Context, id string, upd AvailabilityUpdate) (*models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.StartDate != nil {
		set["startDate"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		set["endDate"] = *upd.EndDate
	}
	if upd.AvailableDays != nil {
		set["availableDays"] = *upd.AvailableDays
	}
	if upd.TimeSlots != nil {
		set["timeSlots"] = *upd.TimeSlots
	}
	if upd.Recurrence != nil {
		set["recurrence"] = *upd.Recurrence
	}
	if upd.BlockedDates != nil {
		set["blockedDates"] = *upd.BlockedDates
	}
	if upd.Active != nil {
		set["active"] = *upd.Active
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Availability
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&out)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to update availability %s: %w", id, err)
	}
	return &out, nil
}

// AddBlockedDates relies on $addToSet/$each for set-union semantics:
// duplicates collapse server-side, inactive records are untouched.
func (r *MongoAvailabilityRepo) AddBlockedDates(ctx context.Context, listingID string, dates []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(dates) == 0 {
		return 0, nil
	}
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"listingId": listingID, "active": true},
		bson.M{
			"$addToSet": bson.M{"blockedDates": bson.M{"$each": dates}},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to block dates for listing %s: %w", listingID, err)
	}
	return res.MatchedCount, nil
}

func (r *MongoAvailabilityRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete availability %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
