package persistence

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProfileRepository implements ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByUserID loads the profile belonging to a user
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID uint) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save updates the contact fields of an existing profile. The cart
// snapshot is written only through SaveOldCart.
func (r *GormProfileRepository) Save(ctx context.Context, profile *identity.Profile) error {
	model := models.ProfileModelFromDomain(profile)
	result := r.db.WithContext(ctx).Model(&models.ProfileModel{}).
		Where("user_id = ?", profile.UserID).
		Select("phone", "address1", "address2", "city", "state", "zipcode", "country", "date_modified").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	profile.DateModified = model.DateModified
	return nil
}

// SaveOldCart writes only the cart snapshot column
func (r *GormProfileRepository) SaveOldCart(ctx context.Context, userID uint, oldCart *string) error {
	result := r.db.WithContext(ctx).Model(&models.ProfileModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"old_cart":      oldCart,
			"date_modified": time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// Ensure GormProfileRepository implements ProfileRepository
var _ identity.ProfileRepository = (*GormProfileRepository)(nil)
