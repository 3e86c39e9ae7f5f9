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

type vehicleRepository struct {
	client      *mongo.Client
	collection  *mongo.Collection
	assignments *mongo.Collection
}

func NewVehicleRepository(client *mongo.Client, db *mongo.Database) interfaces.VehicleRepository {
	return &vehicleRepository{
		client:      client,
		collection:  db.Collection("vehicles"),
		assignments: db.Collection("driver_vehicles"),
	}
}

// Basic CRUD operations
func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.LicensePlate = utils.NormalizePlate(vehicle.LicensePlate)
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt

	_, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("vehicle with plate %s: %w", vehicle.LicensePlate, services.ErrConflict)
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("vehicle %s: %w", id.Hex(), services.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) GetByLicensePlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"license_plate": utils.NormalizePlate(plate)}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("vehicle with plate %s: %w", plate, services.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle by plate: %w", err)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("vehicle update: %w", services.ErrConflict)
		}
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	if _, err := r.assignments.DeleteMany(ctx, bson.M{"vehicle_id": id}); err != nil {
		return fmt.Errorf("failed to delete vehicle assignments: %w", err)
	}

	return nil
}

// Listing
func (r *vehicleRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	filter := bson.M{}
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"make", "model", "license_plate"})
		if len(searchFilter) > 0 {
			filter = searchFilter
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var vehicles []*models.Vehicle
	for cursor.Next(ctx) {
		var vehicle models.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			return nil, 0, fmt.Errorf("failed to decode vehicle: %w", err)
		}
		vehicles = append(vehicles, &vehicle)
	}

	return vehicles, total, nil
}

// Status and mileage
func (r *vehicleRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.VehicleStatus) error {
	return r.Update(ctx, id, map[string]interface{}{"status": status})
}

func (r *vehicleRepository) IncrementMileage(ctx context.Context, id primitive.ObjectID, distanceKm float64) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"mileage": distanceKm},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment vehicle mileage: %w", err)
	}

	return nil
}

// AssignPrimary clears any primary link held by the driver or the vehicle
// and sets the new pair as primary, all inside one transaction so the
// bipartite exclusivity constraint cannot be observed half-applied.
func (r *vehicleRepository) AssignPrimary(ctx context.Context, driverID, vehicleID primitive.ObjectID) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		now := time.Now()

		_, err := r.assignments.UpdateMany(
			sessCtx,
			bson.M{
				"is_primary": true,
				"$or": []bson.M{
					{"driver_id": driverID},
					{"vehicle_id": vehicleID},
				},
			},
			bson.M{"$set": bson.M{"is_primary": false}},
		)
		if err != nil {
			return nil, err
		}

		_, err = r.assignments.UpdateOne(
			sessCtx,
			bson.M{"driver_id": driverID, "vehicle_id": vehicleID},
			bson.M{
				"$set":         bson.M{"is_primary": true},
				"$setOnInsert": bson.M{"driver_id": driverID, "vehicle_id": vehicleID, "created_at": now},
			},
			options.Update().SetUpsert(true),
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to assign primary vehicle: %w", err)
	}

	return nil
}

func (r *vehicleRepository) Assign(ctx context.Context, driverID, vehicleID primitive.ObjectID) error {
	_, err := r.assignments.UpdateOne(
		ctx,
		bson.M{"driver_id": driverID, "vehicle_id": vehicleID},
		bson.M{"$setOnInsert": bson.M{
			"driver_id":  driverID,
			"vehicle_id": vehicleID,
			"is_primary": false,
			"created_at": time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to assign vehicle: %w", err)
	}

	return nil
}

func (r *vehicleRepository) Unassign(ctx context.Context, driverID, vehicleID primitive.ObjectID) error {
	_, err := r.assignments.DeleteOne(ctx, bson.M{"driver_id": driverID, "vehicle_id": vehicleID})
	if err != nil {
		return fmt.Errorf("failed to unassign vehicle: %w", err)
	}

	return nil
}

func (r *vehicleRepository) GetAssignmentsByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.DriverVehicle, error) {
	return r.findAssignments(ctx, bson.M{"vehicle_id": vehicleID})
}

func (r *vehicleRepository) GetAssignmentsByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.DriverVehicle, error) {
	return r.findAssignments(ctx, bson.M{"driver_id": driverID})
}

func (r *vehicleRepository) GetPrimaryVehicle(ctx context.Context, driverID primitive.ObjectID) (*models.Vehicle, error) {
	var assignment models.DriverVehicle
	err := r.assignments.FindOne(ctx, bson.M{"driver_id": driverID, "is_primary": true}).Decode(&assignment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("primary vehicle for driver %s: %w", driverID.Hex(), services.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get primary assignment: %w", err)
	}

	return r.GetByID(ctx, assignment.VehicleID)
}

func (r *vehicleRepository) findAssignments(ctx context.Context, filter bson.M) ([]*models.DriverVehicle, error) {
	cursor, err := r.assignments.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []*models.DriverVehicle
	for cursor.Next(ctx) {
		var assignment models.DriverVehicle
		if err := cursor.Decode(&assignment); err != nil {
			return nil, fmt.Errorf("failed to decode assignment: %w", err)
		}
		assignments = append(assignments, &assignment)
	}

	return assignments, nil
}
