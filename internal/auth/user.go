package auth

import (
	"context"
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the stored profile for a signed-in requester. The ID is the
// subject asserted by the upstream identity provider, not a generated one.
type User struct {
	ID        string    `json:"uid" bson:"_id"`
	FirstName string    `json:"first_name" bson:"firstName"`
	LastName  string    `json:"last_name" bson:"lastName"`
	Phone     string    `json:"phone" bson:"phone"`
	Email     string    `json:"email" bson:"email"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

// BeforeCreate sets timestamps and defaults the role.
func (u *User) BeforeCreate() {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	if u.Role == "" {
		u.Role = RoleCustomer
	}
}

// BeforeUpdate refreshes the update timestamp.
func (u *User) BeforeUpdate() {
	u.UpdatedAt = time.Now()
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
}

type UserRepo interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
	Save(ctx context.Context, user *User) error
}
