package menu

import (
	"context"

	"github.com/google/uuid"
)

type ItemRepo interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
