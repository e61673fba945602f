package payments

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is a settled charge for one registration. TransactionID is unique.
type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RegistrationID primitive.ObjectID `bson:"registrationId" json:"registrationId"`
	CampID         primitive.ObjectID `bson:"campId" json:"campId"`
	CampName       string             `bson:"campName" json:"campName" example:"Free Eye Checkup"`
	Email          string             `bson:"email" json:"email" example:"rina@example.com"`
	Fees           float64            `bson:"fees" json:"fees" example:"25"`
	TransactionID  string             `bson:"transactionId" json:"transactionId" example:"pi_3PqQ2x"`
	PaidAt         time.Time          `bson:"paidAt" json:"paidAt"`
}

type IntentRequest struct {
	Fees float64 `json:"fees" binding:"required,gt=0" example:"25"`
}

type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount" example:"2500"`
	Currency     string `json:"currency" example:"usd"`
}

type RecordRequest struct {
	RegistrationID string `json:"registrationId" binding:"required" example:"507f1f77bcf86cd799439011"`
	TransactionID  string `json:"transactionId" binding:"required,notblank" example:"pi_3PqQ2x"`
}
