package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Name      string             `bson:"name" json:"name" binding:"required"`
	Date      int64              `bson:"date" json:"date"`
	Price     float64            `bson:"price" json:"price"`
	Capacity  int64              `bson:"capacity" json:"capacity"`
	Sold      int64              `bson:"sold" json:"sold"`
	CreatedAt int64              `bson:"created_at" json:"created_at"`
}

type Ticket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	EventID   string             `bson:"event_id" json:"event_id"`
	Code      string             `bson:"code" json:"code"` // opaque uuid printed in the QR
	Holder    string             `bson:"holder,omitempty" json:"holder,omitempty"`
	Used      bool               `bson:"used" json:"used"`
	UsedAt    int64              `bson:"used_at,omitempty" json:"used_at,omitempty"`
	CreatedAt int64              `bson:"created_at" json:"created_at"`
}
