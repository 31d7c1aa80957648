package identity

import (
	"time"

	"github.com/storefront/backend/internal/domain/identity"
)

// RegisterInput contains the sign-up form fields
type RegisterInput struct {
	Username  string `form:"username" json:"username"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
	Password1 string `form:"password1" json:"password1"`
	Password2 string `form:"password2" json:"password2"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// UpdateUserInput contains the editable account fields
type UpdateUserInput struct {
	Username  string `form:"username" json:"username"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
}

// UpdateProfileInput contains the editable profile contact fields
type UpdateProfileInput struct {
	Phone    string `form:"phone" json:"phone"`
	Address1 string `form:"address1" json:"address1"`
	Address2 string `form:"address2" json:"address2"`
	City     string `form:"city" json:"city"`
	State    string `form:"state" json:"state"`
	Zipcode  string `form:"zipcode" json:"zipcode"`
	Country  string `form:"country" json:"country"`
}

// ChangePasswordInput contains the password change form fields
type ChangePasswordInput struct {
	CurrentPassword string `form:"current_password" json:"current_password"`
	NewPassword1    string `form:"new_password1" json:"new_password1"`
	NewPassword2    string `form:"new_password2" json:"new_password2"`
}

// UserResponse contains the public account fields
type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	IsStaff   bool       `json:"is_staff"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// ProfileResponse contains the profile contact fields
type ProfileResponse struct {
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	Phone        string    `json:"phone"`
	Address1     string    `json:"address1"`
	Address2     string    `json:"address2"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Zipcode      string    `json:"zipcode"`
	Country      string    `json:"country"`
	DateModified time.Time `json:"date_modified"`
}

// TokenResponse is an issued API access token
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsStaff:   u.IsStaff,
		LastLogin: u.LastLogin,
	}
}

// ToProfileResponse converts a domain Profile to ProfileResponse
func ToProfileResponse(p *identity.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:       p.UserID,
		Username:     p.Username,
		Phone:        p.Contact.Phone,
		Address1:     p.Contact.Address1,
		Address2:     p.Contact.Address2,
		City:         p.Contact.City,
		State:        p.Contact.State,
		Zipcode:      p.Contact.Zipcode,
		Country:      p.Contact.Country,
		DateModified: p.DateModified,
	}
}
