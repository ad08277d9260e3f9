package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	Password       string             `bson:"password" json:"password,omitempty" validate:"required,min=6"`
	Name           string             `bson:"name" json:"name" validate:"required,min=2,max=100"`
	RestaurantName string             `bson:"restaurantName" json:"restaurantName"`
	Role           string             `bson:"role" json:"role" validate:"required,eq=customer|eq=vendor|eq=admin"`
	Phone          string             `bson:"phone" json:"phone"`
	Address        Address            `bson:"address" json:"address"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	IsApproved     bool               `bson:"isApproved" json:"isApproved"`
	LastLogin      *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	Token          string             `bson:"token" json:"token,omitempty"`
	RefreshToken   string             `bson:"refreshToken" json:"refreshToken,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Sanitize strips credentials before the user is written to a response.
func (u *User) Sanitize() {
	u.Password = ""
	u.Token = ""
	u.RefreshToken = ""
}

// DefaultRestaurantName is what a vendor is displayed as until they pick a name.
func DefaultRestaurantName(name string) string {
	return name + "'s Kitchen"
}
