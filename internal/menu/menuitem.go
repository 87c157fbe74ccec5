package menu

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Item represents a dish or any offerable product. The booking core treats
// items as read-only: carts copy what they need at add time.
type Item struct {
	ID              uuid.UUID `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Description     string    `json:"description" bson:"description"`
	Image           string    `json:"image,omitempty" bson:"image,omitempty"`
	Price           float64   `json:"price,omitempty" bson:"price,omitempty"`
	BaseIngredients []string  `json:"base_ingredients,omitempty" bson:"baseIngredients,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updatedAt"`
}

// NewItem creates a new Item with a generated ID.
func NewItem() *Item {
	return &Item{
		ID: apt.GenerateNewID(),
	}
}

// GetID returns the item ID.
func (m *Item) GetID() uuid.UUID {
	return m.ID
}

// ResourceType returns the resource type for URL generation.
func (m *Item) ResourceType() string {
	return "menu/item"
}

// EnsureID generates a new UUID if ID is nil.
func (m *Item) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = apt.GenerateNewID()
	}
}

// BeforeCreate sets up the item before creation.
func (m *Item) BeforeCreate() {
	m.EnsureID()
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
}

// BeforeUpdate updates the timestamp.
func (m *Item) BeforeUpdate() {
	m.UpdatedAt = time.Now()
}

// itemDoc is the persisted shape of an Item. UUIDs are stored as strings.
type itemDoc struct {
	ID              string    `bson:"_id"`
	Name            string    `bson:"name"`
	Description     string    `bson:"description"`
	Image           string    `bson:"image,omitempty"`
	Price           float64   `bson:"price,omitempty"`
	BaseIngredients []string  `bson:"baseIngredients,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

// MarshalBSON custom BSON marshaling for UUID handling.
func (m *Item) MarshalBSON() ([]byte, error) {
	return bson.Marshal(itemDoc{
		ID:              m.ID.String(),
		Name:            m.Name,
		Description:     m.Description,
		Image:           m.Image,
		Price:           m.Price,
		BaseIngredients: m.BaseIngredients,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	})
}

// UnmarshalBSON custom BSON unmarshaling for UUID handling.
func (m *Item) UnmarshalBSON(data []byte) error {
	var doc itemDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return err
	}

	m.ID = id
	m.Name = doc.Name
	m.Description = doc.Description
	m.Image = doc.Image
	m.Price = doc.Price
	m.BaseIngredients = doc.BaseIngredients
	m.CreatedAt = doc.CreatedAt
	m.UpdatedAt = doc.UpdatedAt
	return nil
}
