package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods accepted at checkout.
const (
	PayCash   = "cash"
	PayCard   = "card"
	PayMobile = "mobile"
)

type SaleItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int64   `bson:"quantity" json:"quantity"`
	IsFormula bool    `bson:"is_formula,omitempty" json:"is_formula,omitempty"`
}

type Sale struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID       string             `bson:"owner_id" json:"owner_id"`
	Items         []SaleItem         `bson:"items" json:"items"`
	Total         float64            `bson:"total" json:"total"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	AgentCode     string             `bson:"agent_code,omitempty" json:"agent_code,omitempty"`
	FromOrderID   string             `bson:"from_order_id,omitempty" json:"from_order_id,omitempty"`
	CreatedAt     int64              `bson:"created_at" json:"created_at"`
}

// CartItem is one requested line at checkout.
type CartItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	IsFormula bool   `json:"is_formula"`
}

// CheckoutInput is the body of POST /sales.
type CheckoutInput struct {
	Items         []CartItem `json:"items" binding:"required"`
	PaymentMethod string     `json:"payment_method" binding:"required"`
	FromOrderID   string     `json:"from_order_id"`
	CustomerID    string     `json:"customer_id"`
}

// StockAdjustment reports one line the planner had to clamp because the
// requested quantity exceeded the stored stock.
type StockAdjustment struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}
