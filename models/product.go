package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Formula is an optional bundle price: Units sold together for Price
// instead of unit price times quantity.
type Formula struct {
	Units int64   `bson:"units" json:"units"`
	Price float64 `bson:"price" json:"price"`
}

type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Name      string             `bson:"name" json:"name" binding:"required"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int64              `bson:"quantity" json:"quantity"` // current stock
	Category  string             `bson:"category" json:"category"`
	Formula   *Formula           `bson:"formula,omitempty" json:"formula,omitempty"`
	PhotoURL  string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt int64              `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt int64              `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type UpdateProduct struct {
	Name     string   `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int64   `json:"quantity,omitempty"`
	Category string   `json:"category,omitempty"`
	Formula  *Formula `json:"formula,omitempty"`
	PhotoURL string   `json:"photo_url,omitempty"`
}
