package repositoryImp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"herbal/entities"
	"herbal/pkg/plant/repository"
)

type plantRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlantRepository { return &plantRepo{db} }

func (r *plantRepo) Create(ctx context.Context, p *entities.Plant) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *plantRepo) Update(ctx context.Context, p *entities.Plant) error {
	res := r.db.WithContext(ctx).Model(p).
		Select("name", "description", "benefit", "compounds", "image_url").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *plantRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Plant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *plantRepo) FindByID(ctx context.Context, id string) (*entities.Plant, error) {
	var p entities.Plant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *plantRepo) ListNewestFirst(ctx context.Context) ([]entities.Plant, error) {
	var out []entities.Plant
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
