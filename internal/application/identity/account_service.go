package identity

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	msgRequired         = "This field is required."
	msgUsernameTaken    = "A user with that username already exists."
	msgPasswordMismatch = "The two password fields didn't match."
	msgNameTooLong      = "Ensure this value has at most 150 characters."
	msgContactTooLong   = "Ensure this value has at most 200 characters."
	maxNameLength       = 150
	maxContactLength    = 200
)

// AccountService handles registration, login and self-service account
// changes
type AccountService struct {
	users    identity.UserRepository
	profiles identity.ProfileRepository
	accounts identity.AccountRepository
	logger   *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	users identity.UserRepository,
	profiles identity.ProfileRepository,
	accounts identity.AccountRepository,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		profiles: profiles,
		accounts: accounts,
		logger:   logger,
	}
}

// Register validates the sign-up form and creates the user together with
// its profile. Field problems come back as *shared.ValidationErrors and
// nothing is written.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*UserResponse, error) {
	username := strings.TrimSpace(input.Username)
	verrs := shared.NewValidationErrors()

	if err := s.checkUsername(ctx, verrs, username, 0); err != nil {
		return nil, err
	}
	checkAccountFields(verrs, input.FirstName, input.LastName, input.Email)

	switch {
	case input.Password1 == "" || input.Password2 == "":
		if input.Password1 == "" {
			verrs.Add("password1", msgRequired)
		}
		if input.Password2 == "" {
			verrs.Add("password2", msgRequired)
		}
	case input.Password1 != input.Password2:
		verrs.Add("password2", msgPasswordMismatch)
	default:
		for _, problem := range shared.PasswordProblems(input.Password2, username, input.FirstName, input.LastName, input.Email) {
			verrs.Add("password2", problem)
		}
	}

	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(username, input.Email, input.Password1)
	if err != nil {
		return nil, err
	}
	if err := user.SetNames(input.FirstName, input.LastName); err != nil {
		return nil, err
	}

	if _, err := s.accounts.CreateWithProfile(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			verrs.Add("username", msgUsernameTaken)
			return nil, verrs
		}
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Authenticate checks credentials and stamps last_login. Every failure is
// reported as identity.ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, input LoginInput) (*UserResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		s.logger.Warn("Login attempt for unknown user", zap.String("username", input.Username))
		return nil, identity.ErrInvalidCredentials
	}

	if !user.CanLogin() {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", input.Username))
		return nil, identity.ErrInvalidCredentials
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, identity.ErrInvalidCredentials
	}

	user.RecordLogin(time.Now())
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetUser returns the account with the given id
func (s *AccountService) GetUser(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateUser replaces username, names and email. The username must stay
// unique among other users.
func (s *AccountService) UpdateUser(ctx context.Context, userID uint, input UpdateUserInput) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	verrs := shared.NewValidationErrors()
	if err := s.checkUsername(ctx, verrs, username, user.ID); err != nil {
		return nil, err
	}
	checkAccountFields(verrs, input.FirstName, input.LastName, input.Email)
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	if err := user.UpdateAccount(username, input.FirstName, input.LastName, input.Email); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			verrs.Add("username", msgUsernameTaken)
			return nil, verrs
		}
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetProfile returns the profile belonging to the user
func (s *AccountService) GetProfile(ctx context.Context, userID uint) (*ProfileResponse, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// UpdateProfile replaces the profile contact fields. The cart snapshot is
// left alone.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*ProfileResponse, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := []struct{ name, value string }{
		{"phone", input.Phone},
		{"address1", input.Address1},
		{"address2", input.Address2},
		{"city", input.City},
		{"state", input.State},
		{"zipcode", input.Zipcode},
		{"country", input.Country},
	}
	verrs := shared.NewValidationErrors()
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > maxContactLength {
			verrs.Add(f.name, msgContactTooLong)
		}
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	info := identity.ContactInfo{
		Phone:    input.Phone,
		Address1: input.Address1,
		Address2: input.Address2,
		City:     input.City,
		State:    input.State,
		Zipcode:  input.Zipcode,
		Country:  input.Country,
	}
	if err := profile.UpdateContact(info); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}

	resp := ToProfileResponse(profile)
	return &resp, nil
}

// ChangePassword verifies the current password and stores the new one.
// On any field error the stored hash is left unchanged.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, input ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	verrs := shared.NewValidationErrors()
	if input.CurrentPassword == "" {
		verrs.Add("current_password", msgRequired)
	} else if !user.VerifyPassword(input.CurrentPassword) {
		verrs.Add("current_password", identity.ErrIncorrectPassword.Message)
	}

	switch {
	case input.NewPassword1 == "" || input.NewPassword2 == "":
		if input.NewPassword1 == "" {
			verrs.Add("new_password1", msgRequired)
		}
		if input.NewPassword2 == "" {
			verrs.Add("new_password2", msgRequired)
		}
	case input.NewPassword1 != input.NewPassword2:
		verrs.Add("new_password2", msgPasswordMismatch)
	default:
		for _, problem := range shared.PasswordProblems(input.NewPassword2, user.Username, user.FirstName, user.LastName, user.Email) {
			verrs.Add("new_password2", problem)
		}
	}

	if err := verrs.OrNil(); err != nil {
		return err
	}

	if err := user.ChangePassword(input.CurrentPassword, input.NewPassword1); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Password changed", zap.Uint("user_id", user.ID))
	return nil
}

func (s *AccountService) checkUsername(ctx context.Context, verrs *shared.ValidationErrors, username string, excludeID uint) error {
	if err := identity.ValidateUsername(username); err != nil {
		verrs.Add("username", domainMessage(err))
		return nil
	}
	taken, err := s.users.ExistsByUsername(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		verrs.Add("username", msgUsernameTaken)
	}
	return nil
}

func checkAccountFields(verrs *shared.ValidationErrors, first, last, email string) {
	if utf8.RuneCountInString(strings.TrimSpace(first)) > maxNameLength {
		verrs.Add("first_name", msgNameTooLong)
	}
	if utf8.RuneCountInString(strings.TrimSpace(last)) > maxNameLength {
		verrs.Add("last_name", msgNameTooLong)
	}
	if err := identity.ValidateEmail(email); err != nil {
		verrs.Add("email", domainMessage(err))
	}
}

func domainMessage(err error) string {
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		return derr.Message
	}
	return err.Error()
}
