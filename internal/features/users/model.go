package users

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a platform account keyed by email.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id" example:"507f1f77bcf86cd799439011"`
	Email     string             `bson:"email" json:"email" example:"rina@example.com"`
	Name      string             `bson:"name" json:"name" example:"Rina Akter"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Role      string             `bson:"role" json:"role" example:"participant"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateUserRequest is sent by the client after every sign-in.
type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email" example:"rina@example.com"`
	Name  string `json:"name" example:"Rina Akter"`
	Image string `json:"image" binding:"omitempty,url"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,notblank"`
	Image *string `json:"image" binding:"omitempty,url"`
}

func (r *UpdateProfileRequest) ToSet() bson.M {
	set := bson.M{}
	if r.Name != nil {
		set["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Image != nil {
		set["image"] = *r.Image
	}
	return set
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,role" example:"organizer"`
}

// NormalizeEmail is the stored form of an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
