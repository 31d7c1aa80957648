package identity

import "context"

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// ExistsByUsername ignores the user with excludeID (0 excludes nobody)
	ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error)
	// Save updates an existing user. New users go through AccountRepository.
	Save(ctx context.Context, user *User) error
}

// ProfileRepository defines persistence operations for profiles
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
	// SaveOldCart writes only the cart snapshot column
	SaveOldCart(ctx context.Context, userID uint, oldCart *string) error
}

// AccountRepository creates identities
type AccountRepository interface {
	// CreateWithProfile inserts user and its blank profile in one
	// transaction. On success user.ID is set and the profile is returned.
	CreateWithProfile(ctx context.Context, user *User) (*Profile, error)
}
