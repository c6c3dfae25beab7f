package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan values stored on a profile.
const (
	PlanTrial   = "trial"
	PlanActive  = "active"
	PlanExpired = "expired"
)

// Profile is an establishment owner account. All domain documents are
// scoped by its ID (owner_id).
type Profile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EstablishmentName  string             `bson:"establishment_name" json:"establishment_name"`
	Email              string             `bson:"email" json:"email"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password           string             `bson:"password,omitempty" json:"-"`
	Role               string             `bson:"role" json:"role"`
	Plan               string             `bson:"plan,omitempty" json:"plan,omitempty"`
	TrialEndsAt        int64              `bson:"trial_ends_at,omitempty" json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt int64              `bson:"subscription_ends_at,omitempty" json:"subscription_ends_at,omitempty"`
	CreatedAt          int64              `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// TeamMember is a staff account without its own login. Access goes through
// an opaque agent token resolved in the agent_tokens collection.
type TeamMember struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Name      string             `bson:"name" json:"name" binding:"required"`
	Role      string             `bson:"role" json:"role" binding:"required"` // "server", "cashier", "event"
	AgentCode string             `bson:"agent_code" json:"agent_code"`
	Token     string             `bson:"token" json:"token"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt int64              `bson:"created_at" json:"created_at"`
}

// AgentToken is the public token -> owner mapping an agent device resolves
// before it can call tenant operations.
type AgentToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Token     string             `bson:"token" json:"token"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Role      string             `bson:"role" json:"role"`
	AgentCode string             `bson:"agent_code" json:"agent_code"`
	AgentName string             `bson:"agent_name" json:"agent_name"`
	CreatedAt int64              `bson:"created_at" json:"created_at"`
}

type Customer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Name      string             `bson:"name" json:"name" binding:"required"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Points    int64              `bson:"points" json:"points"`
	CreatedAt int64              `bson:"created_at" json:"created_at"`
}
