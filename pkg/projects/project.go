package projects

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is the model for a construction project tasks belong to
type Project struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
	Name           string             `json:"name" bson:"name" validate:"required"`
	Description    string             `json:"description" bson:"description"`
	SiteAddress    string             `json:"siteAddress" bson:"siteAddress"`
	StartDate      time.Time          `json:"startDate" bson:"startDate"`
	ExpectedEnd    time.Time          `json:"expectedEnd" bson:"expectedEnd"`
	Budget         float64            `json:"budget" bson:"budget"`
	Deleted        bool               `json:"deleted" bson:"deleted"`
}

// ProjectUpdate is the view of a project for an update, immutable fields are not deserialized
type ProjectUpdate struct {
	ID             primitive.ObjectID `json:"-" bson:"_id"`
	CreatedAt      time.Time          `json:"-" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"-" bson:"lastModifiedAt"`
	Name           string             `json:"name" bson:"name" validate:"required"`
	Description    string             `json:"description" bson:"description"`
	SiteAddress    string             `json:"siteAddress" bson:"siteAddress"`
	StartDate      time.Time          `json:"startDate" bson:"startDate"`
	ExpectedEnd    time.Time          `json:"expectedEnd" bson:"expectedEnd"`
	Budget         float64            `json:"budget" bson:"budget"`
	Deleted        bool               `json:"-" bson:"deleted"`
}
