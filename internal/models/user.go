package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account row in PostgreSQL. The follow graph lives in the
// follows table (see Follow); posts and threads reference users by ID
// from MongoDB.
type User struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Username string    `json:"username" gorm:"uniqueIndex;size:40;not null"`
	Password string    `json:"-"` // bcrypt hash, never serialized
	Status   string    `json:"status"`
	Bio      string    `json:"bio"`
	Avatar   string    `json:"avatar"` // URL reference, upload handled elsewhere
	JoinedOn time.Time `json:"joined_on" gorm:"autoCreateTime"`
}

// UserCompact is the profile summary embedded in feeds, threads and
// follower listings.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// ToCompact reduces a User to its embeddable summary.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// SignupRequest defines the request body for creating an account.
type SignupRequest struct {
	Username        string `json:"username" validate:"required,alphanum,min=2,max=40"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginRequest defines the request body for authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile edits.
type UpdateProfileRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,max=160"`
	Bio    string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Avatar string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
