package repository

import (
	"context"
	"errors"

	"herbal/entities"
)

var ErrNotFound = errors.New("plant not found")

// PlantRepository is the backing store of the plants collection.
type PlantRepository interface {
	Create(ctx context.Context, p *entities.Plant) error
	Update(ctx context.Context, p *entities.Plant) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*entities.Plant, error)
	ListNewestFirst(ctx context.Context) ([]entities.Plant, error)
}
