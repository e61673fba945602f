package feedbacks

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Feedback struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email     string              `bson:"email" json:"email" example:"rina@example.com"`
	Name      string              `bson:"name" json:"name" example:"Rina Akter"`
	CampID    *primitive.ObjectID `bson:"campId,omitempty" json:"campId,omitempty"`
	CampName  string              `bson:"campName,omitempty" json:"campName,omitempty" example:"Free Eye Checkup"`
	Rating    int                 `bson:"rating,omitempty" json:"rating,omitempty" example:"5"`
	Content   string              `bson:"content" json:"content" example:"Well organized, short queue."`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

type CreateFeedbackRequest struct {
	CampID   string `json:"campId" example:"507f1f77bcf86cd799439012"`
	CampName string `json:"campName" example:"Free Eye Checkup"`
	Name     string `json:"name" example:"Rina Akter"`
	Rating   int    `json:"rating" binding:"omitempty,gte=1,lte=5" example:"5"`
	Content  string `json:"content" binding:"required,notblank,max=2000"`
}
