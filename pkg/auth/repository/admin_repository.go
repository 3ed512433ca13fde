package repository

import (
	"context"

	"herbal/entities"
)

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*entities.Admin, error)
	Upsert(ctx context.Context, a *entities.Admin) error
}
