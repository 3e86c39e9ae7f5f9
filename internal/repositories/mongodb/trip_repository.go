package mongodb

import (
	"context"
	"fmt"
	"time"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type tripRepository struct {
	collection *mongo.Collection
	routes     *mongo.Collection
	feedback   *mongo.Collection
	cargo      *mongo.Collection
	cache      services.CacheService
}

func NewTripRepository(db *mongo.Database, cache services.CacheService) interfaces.TripRepository {
	return &tripRepository{
		collection: db.Collection("trips"),
		routes:     db.Collection("trip_routes"),
		feedback:   db.Collection("trip_feedback"),
		cargo:      db.Collection("cargo"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	trip.ID = primitive.NewObjectID()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt

	_, err := r.collection.InsertOne(ctx, trip)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	// Cache active trips for quick access
	if trip.Status == models.TripStatusPending || trip.Status == models.TripStatusAccepted {
		r.cacheTrip(ctx, trip)
	}

	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	if trip := r.getTripFromCache(ctx, id.Hex()); trip != nil {
		return trip, nil
	}

	var trip models.Trip
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("trip %s: %w", id.Hex(), services.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	if trip.Status == models.TripStatusAccepted || trip.Status == models.TripStatusInTransit {
		r.cacheTrip(ctx, &trip)
	}

	return &trip, nil
}

func (r *tripRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	r.invalidateTripCache(ctx, id.Hex())

	return nil
}

func (r *tripRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	var trip models.Trip
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("trip %s: %w", id.Hex(), services.ErrNotFound)
		}
		return fmt.Errorf("failed to get trip: %w", err)
	}

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	// Sub-records go with the trip
	if !trip.CargoID.IsZero() {
		if _, err := r.cargo.DeleteOne(ctx, bson.M{"_id": trip.CargoID}); err != nil {
			return fmt.Errorf("failed to delete trip cargo: %w", err)
		}
	}
	if _, err := r.routes.DeleteMany(ctx, bson.M{"trip_id": id}); err != nil {
		return fmt.Errorf("failed to delete trip routes: %w", err)
	}
	if _, err := r.feedback.DeleteMany(ctx, bson.M{"trip_id": id}); err != nil {
		return fmt.Errorf("failed to delete trip feedback: %w", err)
	}

	r.invalidateTripCache(ctx, id.Hex())

	return nil
}

// Listing
func (r *tripRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return r.findTripsWithFilter(ctx, bson.M{}, params)
}

func (r *tripRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return r.findTripsWithFilter(ctx, bson.M{"driver_id": driverID}, params)
}

func (r *tripRepository) GetByManager(ctx context.Context, managerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return r.findTripsWithFilter(ctx, bson.M{"manager_id": managerID}, params)
}

// UpdateStatusFrom performs the id-scoped conditional transition write.
// Concurrent callers race on the status guard, so at most one matches.
func (r *tripRepository) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.TripStatus, extra map[string]interface{}) (bool, error) {
	updates := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	for field, value := range extra {
		updates[field] = value
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": updates},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update trip status: %w", err)
	}

	r.invalidateTripCache(ctx, id.Hex())

	return result.MatchedCount == 1, nil
}

// MarkMileageAccounted is a check-and-set on the mileage guard: only the
// call that flips false to true may credit the vehicle mileage.
func (r *tripRepository) MarkMileageAccounted(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "is_mileage_accounted": false},
		bson.M{"$set": bson.M{"is_mileage_accounted": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark mileage accounted: %w", err)
	}

	r.invalidateTripCache(ctx, id.Hex())

	return result.MatchedCount == 1, nil
}

// Vertically partitioned sub-records
func (r *tripRepository) CreateCargo(ctx context.Context, cargo *models.Cargo) error {
	cargo.ID = primitive.NewObjectID()
	cargo.CreatedAt = time.Now()

	_, err := r.cargo.InsertOne(ctx, cargo)
	if err != nil {
		return fmt.Errorf("failed to create cargo: %w", err)
	}

	return nil
}

func (r *tripRepository) GetCargoByID(ctx context.Context, id primitive.ObjectID) (*models.Cargo, error) {
	var cargo models.Cargo
	err := r.cargo.FindOne(ctx, bson.M{"_id": id}).Decode(&cargo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("cargo %s: %w", id.Hex(), services.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cargo: %w", err)
	}

	return &cargo, nil
}

func (r *tripRepository) CreateRoute(ctx context.Context, route *models.TripRoute) error {
	route.ID = primitive.NewObjectID()
	route.CreatedAt = time.Now()

	_, err := r.routes.InsertOne(ctx, route)
	if err != nil {
		return fmt.Errorf("failed to create trip route: %w", err)
	}

	return nil
}

func (r *tripRepository) GetRouteByTrip(ctx context.Context, tripID primitive.ObjectID) (*models.TripRoute, error) {
	var route models.TripRoute
	err := r.routes.FindOne(ctx, bson.M{"trip_id": tripID}).Decode(&route)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("route for trip %s: %w", tripID.Hex(), services.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip route: %w", err)
	}

	return &route, nil
}

// UpsertFeedback creates the feedback row on first write and patches only
// the supplied fields afterwards.
func (r *tripRepository) UpsertFeedback(ctx context.Context, tripID primitive.ObjectID, rating *int, review *string) error {
	now := time.Now()

	set := bson.M{"updated_at": now}
	if rating != nil {
		set["rating"] = *rating
	}
	if review != nil {
		set["review"] = *review
	}

	_, err := r.feedback.UpdateOne(
		ctx,
		bson.M{"trip_id": tripID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"trip_id": tripID, "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert trip feedback: %w", err)
	}

	return nil
}

func (r *tripRepository) GetFeedbackByTrip(ctx context.Context, tripID primitive.ObjectID) (*models.TripFeedback, error) {
	var feedback models.TripFeedback
	err := r.feedback.FindOne(ctx, bson.M{"trip_id": tripID}).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("feedback for trip %s: %w", tripID.Hex(), services.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip feedback: %w", err)
	}

	return &feedback, nil
}

// Analytics
func (r *tripRepository) CountByStatus(ctx context.Context, status models.TripStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}

	return count, nil
}

func (r *tripRepository) GetEarningsByMonth(ctx context.Context, months int) ([]*utils.MonthlyEarnings, error) {
	startDate := time.Now().AddDate(0, -months, 0)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":         models.TripStatusCompleted,
			"actual_arrival": bson.M{"$gte": startDate},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$actual_arrival"},
				"month": bson.M{"$month": "$actual_arrival"},
			},
			"earnings": bson.M{"$sum": "$payment_amount"},
			"profit":   bson.M{"$sum": "$expected_profit"},
			"trips":    bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var earnings []*utils.MonthlyEarnings
	for cursor.Next(ctx) {
		var result struct {
			ID struct {
				Year  int `bson:"year"`
				Month int `bson:"month"`
			} `bson:"_id"`
			Earnings float64 `bson:"earnings"`
			Profit   float64 `bson:"profit"`
			Trips    int64   `bson:"trips"`
		}

		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode monthly earnings: %w", err)
		}

		earnings = append(earnings, &utils.MonthlyEarnings{
			Year:     result.ID.Year,
			Month:    result.ID.Month,
			Earnings: result.Earnings,
			Profit:   result.Profit,
			Trips:    result.Trips,
		})
	}

	return earnings, nil
}

func (r *tripRepository) GetDriverTripStats(ctx context.Context, driverID primitive.ObjectID) (map[string]interface{}, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"driver_id": driverID}}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$status",
			"count":          bson.M{"$sum": 1},
			"total_distance": bson.M{"$sum": "$distance_km"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate driver trip stats: %w", err)
	}
	defer cursor.Close(ctx)

	stats := make(map[string]interface{})
	for cursor.Next(ctx) {
		var result struct {
			ID            models.TripStatus `bson:"_id"`
			Count         int64             `bson:"count"`
			TotalDistance float64           `bson:"total_distance"`
		}

		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode driver trip stats: %w", err)
		}

		stats[string(result.ID)] = map[string]interface{}{
			"count":          result.Count,
			"total_distance": result.TotalDistance,
		}
	}

	return stats, nil
}

// Helper methods
func (r *tripRepository) findTripsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"trip_number"})
		if len(searchFilter) > 0 {
			filter = bson.M{"$and": []bson.M{filter, searchFilter}}
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*models.Trip
	for cursor.Next(ctx) {
		var trip models.Trip
		if err := cursor.Decode(&trip); err != nil {
			return nil, 0, fmt.Errorf("failed to decode trip: %w", err)
		}
		trips = append(trips, &trip)
	}

	return trips, total, nil
}

// Cache operations
func (r *tripRepository) cacheTrip(ctx context.Context, trip *models.Trip) {
	if r.cache != nil {
		r.cache.Set(ctx, fmt.Sprintf("trip:%s", trip.ID.Hex()), trip, 15*time.Minute)
	}
}

func (r *tripRepository) getTripFromCache(ctx context.Context, tripID string) *models.Trip {
	if r.cache == nil {
		return nil
	}

	var trip models.Trip
	if err := r.cache.Get(ctx, fmt.Sprintf("trip:%s", tripID), &trip); err != nil {
		return nil
	}

	return &trip
}

func (r *tripRepository) invalidateTripCache(ctx context.Context, tripID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, fmt.Sprintf("trip:%s", tripID))
	}
}
