package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account document stored in the `users` collection.
// Email is stored lowercased; Password holds only the bcrypt hash.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName            string             `bson:"firstName" json:"firstName"`
	LastName             string             `bson:"lastName" json:"lastName"`
	Email                string             `bson:"email" json:"email"`
	Phone                string             `bson:"phone" json:"phone"`
	Password             string             `bson:"password" json:"-"`
	IsVerified           bool               `bson:"isVerified" json:"isVerified"`
	VerificationCode     *string            `bson:"verificationCode,omitempty" json:"-"`
	ResetPasswordCode    *string            `bson:"resetPasswordCode,omitempty" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	Role                 string             `bson:"role" json:"role"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the shape returned to clients after login or verification.
type PublicUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// ProfileUser additionally exposes the verification flag, used by the
// profile endpoint only.
type ProfileUser struct {
	PublicUser
	IsVerified bool `json:"isVerified"`
}

// Public projects the user into its client-safe shape.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
	}
}

// Profile projects the user into the profile shape.
func (u *User) Profile() ProfileUser {
	return ProfileUser{PublicUser: u.Public(), IsVerified: u.IsVerified}
}
