package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"localpro/config"
	"localpro/database"
	"localpro/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Seeds a ring of providers and listings around a fixed point so the
// matching endpoints can be exercised by hand.
func main() {
	config.LoadConfig()
	database.InitDB()

	db := database.MongoClient.Database(database.DatabaseName)
	providerColl := db.Collection("providers")
	listingColl := db.Collection("listings")
	categoryColl := db.Collection("categories")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, coll := range []string{"providers", "listings", "categories"} {
		if _, err := db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", coll, err)
		}
	}

	// Fixed seeker point (Nairobi CBD).
	centerLon, centerLat := 36.8219, -1.2921

	categories := []models.Category{
		{ID: "cat-cleaning", Name: "Cleaning", Active: true},
		{ID: "cat-plumbing", Name: "Plumbing", Active: true},
		{ID: "cat-deep-clean", Name: "Deep Cleaning", ParentID: "cat-cleaning", Active: true},
	}
	for _, c := range categories {
		if _, err := categoryColl.InsertOne(ctx, c); err != nil {
			log.Fatalf("Failed to insert category: %v", err)
		}
	}

	rand.Seed(time.Now().UnixNano())
	const providersPerCategory = 12

	var providers []interface{}
	var listings []interface{}
	for _, cat := range categories[:2] {
		for i := 0; i < providersPerCategory; i++ {
			// Spread providers linearly out to 8 km, random bearing.
			distanceKm := 0.2 + 7.8*float64(i)/float64(providersPerCategory-1)
			bearing := rand.Float64() * 2 * math.Pi
			lon, lat := offsetPoint(centerLon, centerLat, distanceKm, bearing)

			providerID := uuid.New().String()
			providers = append(providers, models.Provider{
				ID: providerID,
				Profile: models.ProviderProfile{
					ProviderName: fmt.Sprintf("%s Provider %d", cat.Name, i+1),
					PhoneNumber:  fmt.Sprintf("+2547%08d", rand.Intn(100000000)),
					ProfileImage: fmt.Sprintf("profiles/%s", providerID),
					Rating:       1 + rand.Float64()*4,
				},
				Verified:          i%5 != 0, // every fifth provider unverified
				KYCStatus:         models.KYCStatusApproved,
				ServiceRadiusM:    float64(2000 + rand.Intn(8000)),
				CompletedBookings: rand.Intn(200),
				CreatedAt:         time.Now().UTC(),
				UpdatedAt:         time.Now().UTC(),
			})
			listings = append(listings, models.Listing{
				ID:          uuid.New().String(),
				ProviderID:  providerID,
				Title:       fmt.Sprintf("%s near you #%d", cat.Name, i+1),
				CategoryID:  cat.ID,
				LocationGeo: models.NewGeoPoint(lon, lat),
				Active:      true,
				CreatedAt:   time.Now().UTC(),
				UpdatedAt:   time.Now().UTC(),
			})
		}
	}

	if _, err := providerColl.InsertMany(ctx, providers); err != nil {
		log.Fatalf("Failed to insert providers: %v", err)
	}
	if _, err := listingColl.InsertMany(ctx, listings); err != nil {
		log.Fatalf("Failed to insert listings: %v", err)
	}

	log.Printf("Seeded %d providers and %d listings around (%.4f, %.4f)",
		len(providers), len(listings), centerLat, centerLon)
}

// offsetPoint moves distanceKm from (lon, lat) along the given bearing.
func offsetPoint(lon, lat, distanceKm, bearing float64) (float64, float64) {
	const earthRadiusKm = 6371.0
	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	angular := distanceKm / earthRadiusKm

	newLat := math.Asin(math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(bearing))
	newLon := lonRad + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(newLat))

	return newLon * 180 / math.Pi, newLat * 180 / math.Pi
}
