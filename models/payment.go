package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses. Completion is only ever observed by polling the
// document; there is no verified webhook.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

type Payment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID    string             `bson:"owner_id" json:"owner_id"`
	Reference  string             `bson:"reference" json:"reference"`
	Amount     float64            `bson:"amount" json:"amount"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status     string             `bson:"status" json:"status"`
	PaymentURL string             `bson:"payment_url,omitempty" json:"payment_url,omitempty"`
	GatewayID  string             `bson:"gateway_id,omitempty" json:"gateway_id,omitempty"`
	CreatedAt  int64              `bson:"created_at" json:"created_at"`
	UpdatedAt  int64              `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Type      string             `bson:"type" json:"type"`
	Message   string             `bson:"message" json:"message"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt int64              `bson:"created_at" json:"created_at"`
}
