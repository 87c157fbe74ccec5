package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/platterclub/platter/cmd/utils/internal/seeding"
)

// ClearDemo removes demo orders and the time slot documents they were seeded against.
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	ordersResult, err := db.Collection("orders").DeleteMany(ctx, bson.M{"userId": seeding.DemoUserID})
	if err != nil {
		return fmt.Errorf("delete demo orders: %w", err)
	}
	logger.Info("Deleted demo orders", "count", ordersResult.DeletedCount)

	slotsResult, err := db.Collection("timeSlots").DeleteMany(ctx, bson.M{"_id": bson.M{"$in": seeding.DemoDates()}})
	if err != nil {
		return fmt.Errorf("delete demo time slots: %w", err)
	}
	logger.Info("Deleted demo time slot documents", "count", slotsResult.DeletedCount)

	_, err = db.Collection("_seeds").DeleteOne(ctx, bson.M{"_id": "demo_bookings_v1"})
	if err != nil {
		logger.Infof("⚠️  Failed to remove seed marker: %v", err)
	}

	return nil
}
