package seeding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DemoUserID tags every document created by demo seeding so clear-demo can
// find it again.
const DemoUserID = "demo-seed"

var demoSlots = []string{"11:30 - 12:00", "12:00 - 12:30", "12:30 - 13:00", "18:00 - 18:30"}

// DemoDates returns the pickup dates demo data is seeded against: today plus
// the next two days.
func DemoDates() []string {
	now := time.Now()
	dates := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return dates
}

// SeedTimeSlots upserts the slot documents for the demo dates.
func SeedTimeSlots(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("timeSlots")
	for _, date := range DemoDates() {
		doc := bson.M{"_id": date, "slots": demoSlots}
		_, err := coll.ReplaceOne(ctx, bson.M{"_id": date}, doc, options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("upsert slots for %s: %w", date, err)
		}
	}
	return nil
}

type demoLine struct {
	name     string
	price    float64
	quantity int
}

type demoOrder struct {
	email    string
	dateIdx  int
	slotIdx  int
	lines    []demoLine
	delivery bool
	address  string
}

// SeedOrders inserts a small spread of orders across the demo dates and
// slots so the admin capacity views have something to show.
func SeedOrders(ctx context.Context, db *mongo.Database) error {
	dates := DemoDates()
	now := time.Now()

	orders := []demoOrder{
		{email: "alice@example.com", dateIdx: 0, slotIdx: 0, lines: []demoLine{
			{"Caviar Sandwich", 14.50, 1},
			{"Vegan Sushi", 10.50, 2},
		}},
		{email: "bob@example.com", dateIdx: 0, slotIdx: 0, lines: []demoLine{
			{"Mini Sliders", 12.50, 3},
		}},
		{email: "carol@example.com", dateIdx: 0, slotIdx: 1, lines: []demoLine{
			{"Beef Tartar", 16.00, 1},
		}, delivery: true, address: "12 Harbor Lane"},
		{email: "dave@example.com", dateIdx: 1, slotIdx: 2, lines: []demoLine{
			{"Chicken Skewers", 11.00, 2},
			{"Mini Sliders", 12.50, 1},
		}},
		{email: "erin@example.com", dateIdx: 2, slotIdx: 3, lines: []demoLine{
			{"Vegan Sushi", 10.50, 1},
		}},
	}

	coll := db.Collection("orders")
	docs := make([]interface{}, 0, len(orders))
	for i, o := range orders {
		cart := make([]bson.M, 0, len(o.lines))
		total := 0.0
		for _, line := range o.lines {
			cart = append(cart, bson.M{
				"menuItemId": uuid.New().String(),
				"name":       line.name,
				"price":      line.price,
				"quantity":   line.quantity,
			})
			total += line.price * float64(line.quantity)
		}

		orderType := "pickup"
		if o.delivery {
			orderType = "delivery"
		}

		doc := bson.M{
			"_id":           uuid.New().String(),
			"orderId":       "ORD-" + strings.ToUpper(uuid.New().String()[:8]),
			"userId":        DemoUserID,
			"userEmail":     o.email,
			"cart":          cart,
			"total":         total,
			"date":          dates[o.dateIdx],
			"timeSlot":      demoSlots[o.slotIdx],
			"orderType":     orderType,
			"paymentMethod": "Cash",
			"createdAt":     now.Add(-time.Duration(len(orders)-i) * time.Minute),
		}
		if o.delivery {
			doc["address"] = o.address
		}
		docs = append(docs, doc)
	}

	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert demo orders: %w", err)
	}
	return nil
}
