package controllers

import (
	"context"
	"net/http"
	"time"

	"barpos/config"
	"barpos/models"
	"barpos/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func AddEvent(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	var input struct {
		Name     string  `json:"name" binding:"required"`
		Date     int64   `json:"date" binding:"required"`
		Price    float64 `json:"price"`
		Capacity int64   `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	event := models.Event{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Name:      input.Name,
		Date:      input.Date,
		Price:     input.Price,
		Capacity:  input.Capacity,
		CreatedAt: time.Now().UnixMilli(),
	}

	if _, err := config.EventCollection.InsertOne(ctx, event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.EventCollection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

func UpdateEvent(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var input struct {
		Name     *string  `json:"name"`
		Date     *int64   `json:"date"`
		Price    *float64 `json:"price"`
		Capacity *int64   `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Date != nil {
		update["date"] = *input.Date
	}
	if input.Price != nil {
		update["price"] = *input.Price
	}
	if input.Capacity != nil {
		update["capacity"] = *input.Capacity
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := config.EventCollection.UpdateOne(ctx,
		bson.M{"_id": objID, "owner_id": ownerID},
		bson.M{"$set": update},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event updated"})
}

func DeleteEvent(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := config.EventCollection.DeleteOne(ctx, bson.M{"_id": objID, "owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	// tickets for the event stay on record for the audit trail

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// SellTicket issues one ticket against an event's capacity and returns the
// QR the buyer presents at the door. The capacity check and the sold
// counter bump run in one transaction so the event cannot oversell.
func SellTicket(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var input struct {
		Holder string `json:"holder"`
	}
	c.ShouldBindJSON(&input)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	session, err := config.Client.StartSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer session.EndSession(ctx)

	var ticket models.Ticket
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var event models.Event
		if err := config.EventCollection.FindOne(sc, bson.M{"_id": objID, "owner_id": ownerID}).Decode(&event); err != nil {
			return nil, err
		}
		if event.Sold >= event.Capacity {
			return nil, errSoldOut
		}

		if _, err := config.EventCollection.UpdateOne(sc, bson.M{"_id": objID}, bson.M{
			"$set": bson.M{"sold": event.Sold + 1},
		}); err != nil {
			return nil, err
		}

		ticket = models.Ticket{
			ID:        primitive.NewObjectID(),
			OwnerID:   ownerID,
			EventID:   objID.Hex(),
			Code:      uuid.NewString(),
			Holder:    input.Holder,
			CreatedAt: time.Now().UnixMilli(),
		}
		if _, err := config.TicketCollection.InsertOne(sc, ticket); err != nil {
			return nil, err
		}
		return nil, nil
	})

	if err != nil {
		if err == errSoldOut {
			c.JSON(http.StatusConflict, gin.H{"error": "Event sold out"})
			return
		}
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sell ticket"})
		return
	}

	qr, err := utils.TicketQR(ticket.Code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate ticket QR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket, "qr_png_base64": qr})
}

var errSoldOut = &soldOutError{}

type soldOutError struct{}

func (e *soldOutError) Error() string { return "event sold out" }

// CheckInTicket marks a ticket used exactly once. The guard is the
// filter's used:false, so a replayed code loses the race and gets the
// "already used" answer.
func CheckInTicket(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := config.TicketCollection.UpdateOne(ctx,
		bson.M{"code": input.Code, "owner_id": ownerID, "used": false},
		bson.M{"$set": bson.M{"used": true, "used_at": time.Now().UnixMilli()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check in ticket"})
		return
	}
	if res.MatchedCount == 0 {
		count, err := config.TicketCollection.CountDocuments(ctx, bson.M{"code": input.Code, "owner_id": ownerID})
		if err == nil && count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Ticket already used"})
		} else {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket checked in"})
}
