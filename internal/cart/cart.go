package cart

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/platterclub/platter/internal/menu"
)

// ErrQuantityTooLow rejects non-positive quantities.
var ErrQuantityTooLow = errors.New("quantity must be at least 1")

// Entry is a catalog item captured into a cart: name, price and base
// ingredients are copied at add time, customization happens on the copy.
type Entry struct {
	MenuItemID        uuid.UUID `json:"menu_item_id" bson:"menuItemId"`
	Name              string    `json:"name" bson:"name"`
	Price             float64   `json:"price,omitempty" bson:"price,omitempty"`
	Quantity          int       `json:"quantity" bson:"quantity"`
	BaseIngredients   []string  `json:"base_ingredients,omitempty" bson:"baseIngredients,omitempty"`
	CustomIngredients []string  `json:"custom_ingredients,omitempty" bson:"customIngredients,omitempty"`
}

// Subtotal returns price times quantity, treating a missing price as zero.
func (e Entry) Subtotal() float64 {
	return e.Price * float64(e.Quantity)
}

func (e Entry) clone() Entry {
	c := e
	c.BaseIngredients = slices.Clone(e.BaseIngredients)
	c.CustomIngredients = slices.Clone(e.CustomIngredients)
	return c
}

type entryDoc struct {
	MenuItemID        string   `bson:"menuItemId"`
	Name              string   `bson:"name"`
	Price             float64  `bson:"price,omitempty"`
	Quantity          int      `bson:"quantity"`
	BaseIngredients   []string `bson:"baseIngredients,omitempty"`
	CustomIngredients []string `bson:"customIngredients,omitempty"`
}

// MarshalBSON custom BSON marshaling for UUID handling.
func (e Entry) MarshalBSON() ([]byte, error) {
	return bson.Marshal(entryDoc{
		MenuItemID:        e.MenuItemID.String(),
		Name:              e.Name,
		Price:             e.Price,
		Quantity:          e.Quantity,
		BaseIngredients:   e.BaseIngredients,
		CustomIngredients: e.CustomIngredients,
	})
}

// UnmarshalBSON custom BSON unmarshaling for UUID handling.
func (e *Entry) UnmarshalBSON(data []byte) error {
	var doc entryDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	id, err := uuid.Parse(doc.MenuItemID)
	if err != nil {
		return fmt.Errorf("invalid UUID format for menuItemId: %w", err)
	}

	e.MenuItemID = id
	e.Name = doc.Name
	e.Price = doc.Price
	e.Quantity = doc.Quantity
	e.BaseIngredients = doc.BaseIngredients
	e.CustomIngredients = doc.CustomIngredients
	return nil
}

// Cart holds one session's pending entries. It is private to that session
// and is not synchronized; the session store guards concurrent access to
// the session map itself.
type Cart struct {
	entries []Entry
}

func New() *Cart {
	return &Cart{}
}

// AddItem appends a new entry derived from a catalog item. A qty below 1
// falls back to the default of 1; custom ingredients start as a copy of
// the base ingredients.
func (c *Cart) AddItem(item *menu.Item, qty int) Entry {
	if qty < 1 {
		qty = 1
	}
	entry := Entry{
		MenuItemID:        item.ID,
		Name:              item.Name,
		Price:             item.Price,
		Quantity:          qty,
		BaseIngredients:   slices.Clone(item.BaseIngredients),
		CustomIngredients: slices.Clone(item.BaseIngredients),
	}
	c.entries = append(c.entries, entry)
	return entry.clone()
}

// SetQuantity replaces the quantity of the entry at index. It fails for
// quantities below 1 and silently ignores out-of-range indexes.
func (c *Cart) SetQuantity(index, qty int) error {
	if qty < 1 {
		return ErrQuantityTooLow
	}
	if index < 0 || index >= len(c.entries) {
		return nil
	}
	c.entries[index].Quantity = qty
	return nil
}

// ToggleIngredient removes the ingredient from the entry's custom set when
// present, otherwise adds it. Ingredients outside the base set are accepted
// and recorded as-is.
func (c *Cart) ToggleIngredient(index int, ingredient string) {
	if index < 0 || index >= len(c.entries) {
		return
	}
	custom := c.entries[index].CustomIngredients
	if i := slices.Index(custom, ingredient); i >= 0 {
		c.entries[index].CustomIngredients = slices.Delete(custom, i, i+1)
		return
	}
	c.entries[index].CustomIngredients = append(custom, ingredient)
}

// Remove drops the entry at index. Out-of-range removal is a no-op so that
// deleting the same position twice stays idempotent.
func (c *Cart) Remove(index int) {
	if index < 0 || index >= len(c.entries) {
		return
	}
	c.entries = slices.Delete(c.entries, index, index+1)
}

// Total sums price times quantity over all entries.
func (c *Cart) Total() float64 {
	var total float64
	for _, e := range c.entries {
		total += e.Subtotal()
	}
	return total
}

// Len returns the number of entries.
func (c *Cart) Len() int {
	return len(c.entries)
}

// Entries returns a deep copy of the cart's entries in order. Submitted
// orders snapshot through this, so later cart mutations cannot leak into
// a persisted order.
func (c *Cart) Entries() []Entry {
	if len(c.entries) == 0 {
		return nil
	}
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.entries = nil
}
