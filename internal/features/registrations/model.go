package registrations

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"

	ConfirmationPending   = "pending"
	ConfirmationConfirmed = "confirmed"
)

// RegisteredCamp is one participant's registration for one camp. Camp details are
// copied in at registration time.
type RegisteredCamp struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id" example:"507f1f77bcf86cd799439011"`
	CampID                 primitive.ObjectID `bson:"campId" json:"campId" example:"507f1f77bcf86cd799439012"`
	CampName               string             `bson:"campName" json:"campName" example:"Free Eye Checkup"`
	Fees                   float64            `bson:"fees" json:"fees" example:"25"`
	Location               string             `bson:"location" json:"location" example:"Community Hall, Sylhet"`
	HealthcareProfessional string             `bson:"healthcareProfessional" json:"healthcareProfessional"`
	ParticipantEmail       string             `bson:"participantEmail" json:"participantEmail" example:"rina@example.com"`
	ParticipantName        string             `bson:"participantName" json:"participantName" example:"Rina Akter"`
	Age                    int                `bson:"age" json:"age" example:"29"`
	Phone                  string             `bson:"phone" json:"phone" example:"+8801700000000"`
	Gender                 string             `bson:"gender" json:"gender" example:"female"`
	EmergencyContact       string             `bson:"emergencyContact" json:"emergencyContact" example:"+8801800000000"`
	PaymentStatus          string             `bson:"paymentStatus" json:"paymentStatus" example:"unpaid"`
	ConfirmationStatus     string             `bson:"confirmationStatus" json:"confirmationStatus" example:"pending"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
}

// RegisterRequest is the participant's join form. The email always comes from the token.
type RegisterRequest struct {
	CampID           string `json:"campId" binding:"required" example:"507f1f77bcf86cd799439012"`
	ParticipantName  string `json:"participantName" binding:"required,notblank" example:"Rina Akter"`
	Age              int    `json:"age" binding:"required,gte=1,lte=120" example:"29"`
	Phone            string `json:"phone" binding:"required,notblank" example:"+8801700000000"`
	Gender           string `json:"gender" binding:"required,oneof=male female other" example:"female"`
	EmergencyContact string `json:"emergencyContact" binding:"required,notblank" example:"+8801800000000"`
}
