package repositoryImp

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"herbal/entities"
	"herbal/pkg/auth/repository"
)

type adminRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AdminRepository { return &adminRepo{db} }

func (r *adminRepo) FindByEmail(ctx context.Context, email string) (*entities.Admin, error) {
	var a entities.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepo) Upsert(ctx context.Context, a *entities.Admin) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
	}).Create(a).Error
}
