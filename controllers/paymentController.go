package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"barpos/api"
	"barpos/config"
	"barpos/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreatePayment requests a hosted mobile-money payment link and records
// the pending payment document the client will poll.
func CreatePayment(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	var input struct {
		Amount float64 `json:"amount" binding:"required"`
		Phone  string  `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	reference := uuid.NewString()
	paymentURL, gatewayID, err := api.CreatePaymentLink(ctx, input.Amount, input.Phone, reference)
	if err != nil {
		log.Printf("create payment link: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create payment link"})
		return
	}

	now := time.Now().UnixMilli()
	payment := models.Payment{
		ID:         primitive.NewObjectID(),
		OwnerID:    ownerID,
		Reference:  reference,
		Amount:     input.Amount,
		Phone:      input.Phone,
		Status:     models.PaymentPending,
		PaymentURL: paymentURL,
		GatewayID:  gatewayID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := config.PaymentCollection.InsertOne(ctx, payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetPayment is the polling endpoint: the client re-reads the document
// until the status leaves pending.
func GetPayment(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payment models.Payment
	err = config.PaymentCollection.FindOne(ctx, bson.M{"_id": objID, "owner_id": ownerID}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment"})
		}
		return
	}

	c.JSON(http.StatusOK, payment)
}

func ListPayments(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.PaymentCollection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
		return
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
