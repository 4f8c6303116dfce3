package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role decides which parts of the API a user may call
type Role string

const (
	// RoleAdmin may manage every resource of the organization
	RoleAdmin Role = "admin"
	// RoleProjectManager manages projects and tasks and may submit and read progress
	RoleProjectManager Role = "projectmanager"
	// RoleSiteSupervisor submits daily progress from site
	RoleSiteSupervisor Role = "sitesupervisor"
)

// IsValid checks a role against the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleSiteSupervisor:
		return true
	}
	return false
}

// User is the model for a registered user
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Firstname      string             `json:"firstname" bson:"firstname" validate:"required"`
	Lastname       string             `json:"lastname" bson:"lastname" validate:"required"`
	Password       string             `json:"-" bson:"password" validate:"required"`
	Email          string             `json:"email" bson:"email" validate:"required,email"`
	Role           Role               `json:"role" bson:"role" validate:"required"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt" validate:"isdefault"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt" validate:"isdefault"`
	IsDeactivated  bool               `json:"isDeactivated" bson:"isDeactivated"`

	DeviceTokens []DeviceToken `json:"-" bson:"deviceTokens,omitempty"`
}

// UserLogin is the view of a user for a login request
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" bson:"password" validate:"required"`
}

// DeviceToken is a token the push notification service delivers to
type DeviceToken struct {
	Token          string    `json:"token" bson:"token"`
	LastRegistered time.Time `json:"lastRegistered" bson:"lastRegistered"`
}
