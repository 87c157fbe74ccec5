package menu

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds returns all seeds for the menu catalog.
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-08-01_menu_catalog_items",
			Description: "Seed the starter catering menu",
			Run: func(ctx context.Context) error {
				return seedCatalogItems(ctx, db)
			},
		},
	}
}

func seedCatalogItems(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("menuItems")

	for _, item := range starterItems() {
		item.BeforeCreate()
		filter := bson.M{"name": item.Name}
		update := bson.M{"$setOnInsert": item}
		if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed menu item %q: %w", item.Name, err)
		}
	}
	return nil
}

func starterItems() []*Item {
	return []*Item{
		{
			Name:            "Caviar Sandwich",
			Description:     "Rich caviar with fresh herbs.",
			Image:           "https://images.unsplash.com/photo-1585238342028-3bd2157b9e77",
			Price:           14.50,
			BaseIngredients: []string{"caviar", "butter", "dill", "sourdough"},
		},
		{
			Name:            "Beef Tartar",
			Description:     "Raw minced steak with quail egg.",
			Image:           "https://images.unsplash.com/photo-1550418290-a8d86ad674d4",
			Price:           16.00,
			BaseIngredients: []string{"beef", "quail egg", "capers", "shallots"},
		},
		{
			Name:            "Mini Sliders",
			Description:     "Small beef burgers with toppings.",
			Image:           "https://images.unsplash.com/photo-1562967916-eb82221dfb44",
			Price:           12.50,
			BaseIngredients: []string{"beef patty", "cheddar", "pickles", "brioche bun"},
		},
		{
			Name:            "Chicken Skewers",
			Description:     "Spiced grilled chicken on sticks.",
			Image:           "https://images.unsplash.com/photo-1625941056399-8f2c6173bde2",
			Price:           11.00,
			BaseIngredients: []string{"chicken", "paprika", "garlic", "lemon"},
		},
		{
			Name:            "Vegan Sushi",
			Description:     "Avocado, tofu, and cucumber rolls.",
			Image:           "https://images.unsplash.com/photo-1579880704325-ec3f30e2dbdf",
			Price:           10.50,
			BaseIngredients: []string{"avocado", "tofu", "cucumber", "rice", "nori"},
		},
	}
}

// SeedingFunc returns a function for running seeds during service startup.
func SeedingFunc(appName string, dbFn func() *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("Applying menu catalog seeds...")
		db := dbFn()
		if db == nil {
			return fmt.Errorf("database is not initialized")
		}
		tracker := seed.NewMongoTracker(db)
		if err := seed.Apply(ctx, tracker, Seeds(db), appName); err != nil {
			return fmt.Errorf("apply seeds: %w", err)
		}
		logger.Info("Menu catalog seeds applied")
		return nil
	}
}
