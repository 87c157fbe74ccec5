package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SlotRepo stores one document per date, keyed by the date string itself:
// { _id: "2026-08-01", slots: ["10:00 - 12:00", ...] }.
type SlotRepo struct {
	collection *mongo.Collection
}

func NewSlotRepo(db *mongo.Database) *SlotRepo {
	return &SlotRepo{
		collection: db.Collection("timeSlots"),
	}
}

type slotDoc struct {
	Date  string   `bson:"_id"`
	Slots []string `bson:"slots"`
}

func (r *SlotRepo) GetSlots(ctx context.Context, date string) ([]string, error) {
	var doc slotDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": date}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get slots: %w", err)
	}
	return doc.Slots, nil
}

// PutSlots replaces the whole per-date sequence in one write. There is no
// append primitive here; callers own the read-modify-write cycle.
func (r *SlotRepo) PutSlots(ctx context.Context, date string, slots []string) error {
	doc := slotDoc{Date: date, Slots: slots}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": date}, doc, opts); err != nil {
		return fmt.Errorf("cannot store slots: %w", err)
	}
	return nil
}
