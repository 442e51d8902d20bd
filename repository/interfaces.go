package repository

import (
	"context"

	"geoMaster/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

// FeatureRepositoryI defines operations on Feature entities.
type FeatureRepositoryI interface {
	Create(ctx context.Context, f *models.Feature) (*models.Feature, error)
	GetByID(ctx context.Context, id string) (*models.Feature, error)
	List(ctx context.Context, filter models.FeatureFilter) ([]models.Feature, error)
	Update(ctx context.Context, id string, patch models.FeaturePatch) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ActivityRepositoryI defines the append-only activity log collection.
type ActivityRepositoryI interface {
	Append(ctx context.Context, e models.ActivityEntry) error
	Recent(ctx context.Context, limit int) ([]models.ActivityEntry, error)
}

var (
	_ UserRepositoryI     = (*UserRepository)(nil)
	_ FeatureRepositoryI  = (*FeatureRepository)(nil)
	_ ActivityRepositoryI = (*ActivityRepository)(nil)
)
