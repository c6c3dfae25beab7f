package handlers

import (
	"context"
	"net/http"
	"time"

	"barpos/config"
	"barpos/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetOrderByToken serves the customer-facing receipt view. The token is
// the only credential; no account needed.
func GetOrderByToken(c *gin.Context) {
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"view_token": token}
	var order models.Order
	err := config.OrderCollection.FindOne(ctx, filter).Decode(&order)
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

	// trim the internal fields out of the public view
	c.JSON(http.StatusOK, gin.H{
		"order_number": order.OrderNumber,
		"table_number": order.TableNumber,
		"items":        order.Items,
		"total":        order.Total,
		"status":       order.Status,
		"created_at":   order.CreatedAt,
	})
}
