package camps

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Camp is a medical camp published by the platform.
// @Description Medical camp with venue, schedule and participant counter
type Camp struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id" example:"507f1f77bcf86cd799439011"`
	Name                   string             `bson:"name" json:"name" example:"Free Eye Checkup"`
	Image                  string             `bson:"image" json:"image" example:"https://res.cloudinary.com/demo/image/upload/camp.jpg"`
	Fees                   float64            `bson:"fees" json:"fees" example:"25"`
	DateTime               time.Time          `bson:"dateTime" json:"dateTime" example:"2026-11-02T09:00:00Z"`
	Location               string             `bson:"location" json:"location" example:"Community Hall, Sylhet"`
	HealthcareProfessional string             `bson:"healthcareProfessional" json:"healthcareProfessional" example:"Dr. Rahman"`
	Description            string             `bson:"description" json:"description" example:"Vision screening for all ages"`
	ParticipantCount       int                `bson:"participantCount" json:"participantCount" example:"12"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateCampRequest is the admin payload for a new camp.
type CreateCampRequest struct {
	Name                   string    `json:"name" binding:"required,notblank" example:"Free Eye Checkup"`
	Image                  string    `json:"image" binding:"omitempty,url"`
	Fees                   float64   `json:"fees" binding:"gte=0" example:"25"`
	DateTime               time.Time `json:"dateTime" binding:"required"`
	Location               string    `json:"location" binding:"required,notblank"`
	HealthcareProfessional string    `json:"healthcareProfessional" binding:"required,notblank"`
	Description            string    `json:"description"`
}

// UpdateCampRequest carries only the fields to change; nil means untouched.
type UpdateCampRequest struct {
	Name                   *string    `json:"name" binding:"omitempty,notblank"`
	Image                  *string    `json:"image" binding:"omitempty,url"`
	Fees                   *float64   `json:"fees" binding:"omitempty,gte=0"`
	DateTime               *time.Time `json:"dateTime"`
	Location               *string    `json:"location" binding:"omitempty,notblank"`
	HealthcareProfessional *string    `json:"healthcareProfessional" binding:"omitempty,notblank"`
	Description            *string    `json:"description"`
}

// ToSet returns the $set document for the supplied fields. participantCount is never settable.
func (r *UpdateCampRequest) ToSet() bson.M {
	set := bson.M{}
	if r.Name != nil {
		set["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Image != nil {
		set["image"] = *r.Image
	}
	if r.Fees != nil {
		set["fees"] = *r.Fees
	}
	if r.DateTime != nil {
		set["dateTime"] = *r.DateTime
	}
	if r.Location != nil {
		set["location"] = *r.Location
	}
	if r.HealthcareProfessional != nil {
		set["healthcareProfessional"] = *r.HealthcareProfessional
	}
	if r.Description != nil {
		set["description"] = *r.Description
	}
	return set
}

// Sort keys accepted by GET /camps?sortBy=.
const (
	SortMostRegistered = "mostRegistered"
	SortFees           = "campFees"
	SortAlphabetical   = "alphabetical"
)

// PopularLimit is how many camps GET /popularCamps returns.
const PopularLimit = 6
