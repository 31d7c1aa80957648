package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository and AccountRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by exact username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByUsername reports whether another user holds username
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save updates an existing user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	if user.IsNew() {
		return translateError(gorm.ErrRecordNotFound)
	}
	result := r.db.WithContext(ctx).Model(&models.UserModel{BaseModel: models.BaseModel{ID: user.ID}}).
		Select("*").Omit("id", "created_at").
		Updates(models.UserModelFromDomain(user))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// CreateWithProfile inserts the user and its blank profile atomically
func (r *GormUserRepository) CreateWithProfile(ctx context.Context, user *identity.User) (*identity.Profile, error) {
	userModel := models.UserModelFromDomain(user)
	userModel.ID = 0

	var profileModel *models.ProfileModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userModel).Error; err != nil {
			return err
		}
		profileModel = models.ProfileModelFromDomain(identity.NewProfile(userModel.ID))
		return tx.Create(profileModel).Error
	})
	if err != nil {
		return nil, translateError(err)
	}

	user.ID = userModel.ID
	user.CreatedAt = userModel.CreatedAt
	user.UpdatedAt = userModel.UpdatedAt

	profile := profileModel.ToDomain()
	profile.Username = user.Username
	return profile, nil
}

// Ensure GormUserRepository implements the identity repositories
var (
	_ identity.UserRepository    = (*GormUserRepository)(nil)
	_ identity.AccountRepository = (*GormUserRepository)(nil)
)
