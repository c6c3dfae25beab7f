package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. "validated" is set after the sale conversion committed;
// cancellation treats it like "sent" (same grace window).
const (
	OrderPending   = "pending"
	OrderSent      = "sent"
	OrderValidated = "validated"
	OrderServed    = "served"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int64   `bson:"quantity" json:"quantity"`
	Category  string  `bson:"category,omitempty" json:"category,omitempty"`
}

type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID      string             `bson:"owner_id" json:"owner_id"`
	OrderNumber  int64              `bson:"order_number" json:"order_number"`
	TableNumber  string             `bson:"table_number,omitempty" json:"table_number,omitempty"`
	Items        []OrderItem        `bson:"items" json:"items"`
	Total        float64            `bson:"total" json:"total"`
	Status       string             `bson:"status" json:"status"`
	AgentCode    string             `bson:"agent_code,omitempty" json:"agent_code,omitempty"`
	AgentName    string             `bson:"agent_name,omitempty" json:"agent_name,omitempty"`
	CustomerID   string             `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	ViewToken    string             `bson:"view_token,omitempty" json:"view_token,omitempty"`
	CreatedAt    int64              `bson:"created_at" json:"created_at"`
	UpdatedAt    int64              `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	CancelledAt  int64              `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancelReason string             `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
}

// OrderCancellation is the immutable audit record appended on every
// accepted cancellation.
type OrderCancellation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID        string             `bson:"owner_id" json:"owner_id"`
	OrderID        string             `bson:"order_id" json:"order_id"`
	OrderNumber    int64              `bson:"order_number" json:"order_number"`
	CancelledBy    string             `bson:"cancelled_by" json:"cancelled_by"`
	Reason         string             `bson:"reason" json:"reason"`
	CancelledAt    int64              `bson:"cancelled_at" json:"cancelled_at"`
	PreviousStatus string             `bson:"previous_status" json:"previous_status"`
	OrderTotal     float64            `bson:"order_total" json:"order_total"`
	RefundRequired bool               `bson:"refund_required" json:"refund_required"`
	RefundStatus   string             `bson:"refund_status,omitempty" json:"refund_status,omitempty"`
	PaymentMethod  string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	Metadata       map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
}
