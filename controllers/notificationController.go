package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"barpos/config"
	"barpos/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notify inserts a notification best-effort; every caller is fine with it
// silently not happening.
func notify(ctx context.Context, ownerID, kind, message string) {
	config.NotificationCollection.InsertOne(ctx, models.Notification{
		OwnerID:   ownerID,
		Type:      kind,
		Message:   message,
		CreatedAt: time.Now().UnixMilli(),
	})
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func GetNotifications(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(100)
	cursor, err := config.NotificationCollection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func MarkNotificationRead(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := config.NotificationCollection.UpdateOne(ctx,
		bson.M{"_id": objID, "owner_id": ownerID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
