package controllers

import (
	"context"
	"net/http"
	"time"

	"barpos/config"
	"barpos/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// orderCollection picks dining or bar orders; the two flows share a shape
// but live in separate collections.
func orderCollection(c *gin.Context) *mongo.Collection {
	if c.Query("bar") == "true" {
		return config.BarOrderCollection
	}
	return config.OrderCollection
}

// nextOrderNumber is a best-effort per-tenant counter: highest stored
// number plus one. Two simultaneous creates can collide; order numbers are
// display labels, not keys.
func nextOrderNumber(ctx context.Context, coll *mongo.Collection, ownerID string) int64 {
	opts := options.FindOne().SetSort(bson.M{"order_number": -1})
	var last models.Order
	err := coll.FindOne(ctx, bson.M{"owner_id": ownerID}, opts).Decode(&last)
	if err != nil {
		return 1
	}
	return last.OrderNumber + 1
}

type createOrderInput struct {
	TableNumber string             `json:"table_number"`
	Items       []models.OrderItem `json:"items" binding:"required"`
	CustomerID  string             `json:"customer_id"`
}

func CreateOrder(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order has no items"})
		return
	}

	total := 0.0
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity for " + item.Name})
			return
		}
		total += item.Price * float64(item.Quantity)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := orderCollection(c)
	now := time.Now().UnixMilli()
	order := models.Order{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		OrderNumber: nextOrderNumber(ctx, coll, ownerID),
		TableNumber: input.TableNumber,
		Items:       input.Items,
		Total:       total,
		Status:      models.OrderPending,
		AgentCode:   c.GetString("agentCode"),
		AgentName:   c.GetString("agentName"),
		CustomerID:  input.CustomerID,
		ViewToken:   uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := coll.InsertOne(ctx, order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func GetOrders(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	filter := bson.M{"owner_id": ownerID}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := orderCollection(c).Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func GetOrderByID(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": objID, "owner_id": ownerID}
	var order models.Order
	err = config.OrderCollection.FindOne(ctx, filter).Decode(&order)
	if err == mongo.ErrNoDocuments {
		err = config.BarOrderCollection.FindOne(ctx, filter).Decode(&order)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// allowed forward transitions; cancellation goes through CancelOrder, and
// "validated" is only ever set by the sale conversion
var statusTransitions = map[string][]string{
	models.OrderPending:   {models.OrderSent, models.OrderServed},
	models.OrderSent:      {models.OrderServed},
	models.OrderValidated: {models.OrderServed},
	models.OrderServed:    {models.OrderCompleted},
}

func UpdateOrderStatus(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := orderCollection(c)
	var order models.Order
	err = coll.FindOne(ctx, bson.M{"_id": objID, "owner_id": ownerID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	allowed := false
	for _, next := range statusTransitions[order.Status] {
		if next == input.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move order from " + order.Status + " to " + input.Status})
		return
	}

	_, err = coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"status": input.Status, "updated_at": time.Now().UnixMilli()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": input.Status})
}
