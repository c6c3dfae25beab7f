package controllers

import (
	"context"
	"math"
	"net/http"
	"time"

	"barpos/config"
	"barpos/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CancellationWindow bounds how long a sent or validated order stays
// cancellable after creation.
const CancellationWindow = 30 * time.Minute

// RefundAmountTolerance is the currency-unit slack when correlating an
// order with a prior sale.
const RefundAmountTolerance = 1.0

// CanCancelOrder decides cancellation eligibility from the order status
// and its age. Served and completed orders are final. Sent and validated
// orders stay cancellable within the grace window. Everything else
// (pending included) is always cancellable.
func CanCancelOrder(status string, createdAt int64, now time.Time) (bool, string) {
	switch status {
	case models.OrderServed, models.OrderCompleted:
		return false, "order already " + status
	case models.OrderSent, models.OrderValidated:
		if now.UnixMilli()-createdAt > CancellationWindow.Milliseconds() {
			return false, "cancellation window of 30 minutes has passed"
		}
		return true, ""
	default:
		return true, ""
	}
}

// MatchRefundSale looks for a sale that plausibly paid for the order: one
// created within 30 minutes after the order whose total matches within one
// currency unit. Heuristic only; two orders with the same total in the
// same window are ambiguous and the first match wins. An explicit
// order-to-sale link would make this exact, the stored documents just
// don't carry one.
func MatchRefundSale(orderTotal float64, orderCreatedAt int64, sales []models.Sale) *models.Sale {
	windowEnd := orderCreatedAt + CancellationWindow.Milliseconds()
	for i := range sales {
		s := &sales[i]
		if s.CreatedAt < orderCreatedAt || s.CreatedAt > windowEnd {
			continue
		}
		if math.Abs(s.Total-orderTotal) < RefundAmountTolerance {
			return s
		}
	}
	return nil
}

// CancelOrder applies the eligibility rules, determines the refund
// obligation, appends the immutable audit record and flips the order to
// cancelled. The order is searched in both the dining and the bar
// collections.
func CancelOrder(c *gin.Context) {
	ownerID := c.GetString("ownerID")
	orderID := c.Param("id")

	objID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": objID, "owner_id": ownerID}
	collection := config.OrderCollection
	var order models.Order
	err = collection.FindOne(ctx, filter).Decode(&order)
	if err == mongo.ErrNoDocuments {
		collection = config.BarOrderCollection
		err = collection.FindOne(ctx, filter).Decode(&order)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	now := time.Now()
	ok, reason := CanCancelOrder(order.Status, order.CreatedAt, now)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot cancel order: " + reason})
		return
	}

	// sales finalized from this order carry an explicit link; fall back
	// to the time-and-amount heuristic for documents that predate it
	var matched *models.Sale
	var linked models.Sale
	err = config.SaleCollection.FindOne(ctx, bson.M{
		"owner_id":      ownerID,
		"from_order_id": orderID,
	}).Decode(&linked)
	if err == nil {
		matched = &linked
	} else {
		salesFilter := bson.M{
			"owner_id": ownerID,
			"created_at": bson.M{
				"$gte": order.CreatedAt,
				"$lte": order.CreatedAt + CancellationWindow.Milliseconds(),
			},
		}
		var candidates []models.Sale
		cursor, err := config.SaleCollection.Find(ctx, salesFilter)
		if err == nil {
			cursor.All(ctx, &candidates)
		}
		matched = MatchRefundSale(order.Total, order.CreatedAt, candidates)
	}

	cancelledBy := c.GetString("agentName")
	if cancelledBy == "" {
		cancelledBy = "owner"
	}

	audit := models.OrderCancellation{
		ID:             primitive.NewObjectID(),
		OwnerID:        ownerID,
		OrderID:        orderID,
		OrderNumber:    order.OrderNumber,
		CancelledBy:    cancelledBy,
		Reason:         input.Reason,
		CancelledAt:    now.UnixMilli(),
		PreviousStatus: order.Status,
		OrderTotal:     order.Total,
	}
	if matched != nil {
		audit.RefundRequired = true
		audit.RefundStatus = "pending"
		audit.PaymentMethod = matched.PaymentMethod
		audit.Metadata = map[string]string{"matched_sale_id": matched.ID.Hex()}
	}

	if _, err := config.CancellationCollection.InsertOne(ctx, audit); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record cancellation"})
		return
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{
			"status":        models.OrderCancelled,
			"cancelled_at":  now.UnixMilli(),
			"cancel_reason": input.Reason,
			"updated_at":    now.UnixMilli(),
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	// best-effort
	notify(ctx, ownerID, "cancellation",
		"Order #"+itoa(order.OrderNumber)+" cancelled: "+input.Reason)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order cancelled",
		"refund_required": audit.RefundRequired,
		"payment_method":  audit.PaymentMethod,
	})
}

// GetCancellations lists the tenant's cancellation audit trail.
func GetCancellations(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.CancellationCollection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cancellations"})
		return
	}
	defer cursor.Close(ctx)

	records := []models.OrderCancellation{}
	if err := cursor.All(ctx, &records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode cancellations"})
		return
	}

	c.JSON(http.StatusOK, records)
}
