package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"barpos/config"
	"barpos/middleware"
	"barpos/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SalePlanLine is one resolved cart line: what gets sold, what it costs,
// and the stock value to write back.
type SalePlanLine struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int64
	IsFormula bool
	NewStock  int64
	LineTotal float64
}

// ErrInsufficientStock carries the clamped quantities back to the caller,
// who must re-confirm the adjusted cart. Nothing is committed when it is
// returned.
type ErrInsufficientStock struct {
	Adjustments []models.StockAdjustment
}

func (e *ErrInsufficientStock) Error() string {
	if len(e.Adjustments) > 0 {
		return fmt.Sprintf("insufficient stock for %s", e.Adjustments[0].Name)
	}
	return "insufficient stock"
}

// BuildSalePlan resolves a cart against a stock snapshot. Every requested
// product must exist; every requested quantity must fit in stock. On a
// stock shortfall the plan is abandoned and the clamps are reported via
// ErrInsufficientStock. Formula lines sell bundles: stock moves by
// units*quantity and the bundle price applies. Repeated lines for the
// same product draw from one running balance, so a product's NewStock on
// its last line is the value to persist.
func BuildSalePlan(items []models.CartItem, products map[string]models.Product) ([]SalePlanLine, float64, error) {
	var plan []SalePlanLine
	var adjustments []models.StockAdjustment
	used := map[string]int64{}
	total := 0.0

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, 0, fmt.Errorf("product not found: %s", item.ProductID)
		}
		if item.Quantity <= 0 {
			return nil, 0, fmt.Errorf("invalid quantity for %s", product.Name)
		}

		price := product.Price
		stockNeeded := item.Quantity
		if item.IsFormula && product.Formula != nil {
			price = product.Formula.Price
			stockNeeded = item.Quantity * product.Formula.Units
		}

		remaining := product.Quantity - used[item.ProductID]
		if stockNeeded > remaining {
			available := remaining
			if item.IsFormula && product.Formula != nil && product.Formula.Units > 0 {
				available = remaining / product.Formula.Units
			}
			adjustments = append(adjustments, models.StockAdjustment{
				ProductID: product.ID.Hex(),
				Name:      product.Name,
				Requested: item.Quantity,
				Available: available,
			})
			continue
		}
		used[item.ProductID] += stockNeeded

		lineTotal := price * float64(item.Quantity)
		total += lineTotal
		plan = append(plan, SalePlanLine{
			ProductID: item.ProductID,
			Name:      product.Name,
			Price:     price,
			Quantity:  item.Quantity,
			IsFormula: item.IsFormula,
			NewStock:  product.Quantity - used[item.ProductID],
			LineTotal: lineTotal,
		})
	}

	if len(adjustments) > 0 {
		return nil, 0, &ErrInsufficientStock{Adjustments: adjustments}
	}
	return plan, total, nil
}

// FinalizeSale converts a cart into stock decrements plus exactly one sale
// document, all inside one MongoDB transaction. Stock is re-read inside
// the transaction, so a concurrent sale either sees the decremented values
// or forces this one to abort.
func FinalizeSale(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	var input models.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
			return
		}
	}
	switch input.PaymentMethod {
	case models.PayCash, models.PayCard, models.PayMobile:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	session, err := config.Client.StartSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer session.EndSession(ctx)

	agentCode := c.GetString("agentCode")
	var sale models.Sale

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		products := make(map[string]models.Product, len(input.Items))
		for _, item := range input.Items {
			objID, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				return nil, fmt.Errorf("product not found: %s", item.ProductID)
			}
			var product models.Product
			err = config.ProductCollection.FindOne(sc, bson.M{"_id": objID, "owner_id": ownerID}).Decode(&product)
			if err != nil {
				if err == mongo.ErrNoDocuments {
					return nil, fmt.Errorf("product not found: %s", item.ProductID)
				}
				return nil, err
			}
			products[item.ProductID] = product
		}

		plan, total, err := BuildSalePlan(input.Items, products)
		if err != nil {
			return nil, err
		}

		now := time.Now().UnixMilli()
		saleItems := make([]models.SaleItem, 0, len(plan))
		// one write per product; with repeated lines the last NewStock
		// carries the full decrement
		finalStock := make(map[string]int64, len(plan))
		for _, line := range plan {
			finalStock[line.ProductID] = line.NewStock
			saleItems = append(saleItems, models.SaleItem{
				ProductID: line.ProductID,
				Name:      line.Name,
				Price:     line.Price,
				Quantity:  line.Quantity,
				IsFormula: line.IsFormula,
			})
		}
		for productID, stock := range finalStock {
			objID, _ := primitive.ObjectIDFromHex(productID)
			_, err := config.ProductCollection.UpdateOne(sc, bson.M{"_id": objID}, bson.M{
				"$set": bson.M{"quantity": stock, "updated_at": now},
			})
			if err != nil {
				return nil, err
			}
		}

		sale = models.Sale{
			ID:            primitive.NewObjectID(),
			OwnerID:       ownerID,
			Items:         saleItems,
			Total:         total,
			PaymentMethod: input.PaymentMethod,
			AgentCode:     agentCode,
			FromOrderID:   input.FromOrderID,
			CreatedAt:     now,
		}
		if _, err := config.SaleCollection.InsertOne(sc, sale); err != nil {
			return nil, err
		}
		return nil, nil
	})

	if err != nil {
		var insufficient *ErrInsufficientStock
		if errors.As(err, &insufficient) {
			c.JSON(http.StatusConflict, gin.H{
				"error":       "Insufficient stock, quantities adjusted",
				"adjustments": insufficient.Adjustments,
			})
			return
		}
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("finalize sale: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize sale"})
		return
	}

	middleware.SalesFinalizedTotal.WithLabelValues(input.PaymentMethod).Inc()

	// secondary effects below are best-effort on purpose: the sale is
	// already committed and must not be rolled back over them
	if input.FromOrderID != "" {
		markOrderValidated(ctx, ownerID, input.FromOrderID)
	}
	if input.CustomerID != "" {
		accrueLoyaltyPoints(ctx, ownerID, input.CustomerID, sale.Total)
	}

	c.JSON(http.StatusOK, sale)
}

func isNotFound(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "product not found")
}

func markOrderValidated(ctx context.Context, ownerID, orderID string) {
	objID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return
	}
	update := bson.M{"$set": bson.M{"status": models.OrderValidated, "updated_at": time.Now().UnixMilli()}}
	res, err := config.OrderCollection.UpdateOne(ctx, bson.M{"_id": objID, "owner_id": ownerID}, update)
	if err != nil {
		log.Printf("mark order validated: %v", err)
		return
	}
	if res.MatchedCount == 0 {
		config.BarOrderCollection.UpdateOne(ctx, bson.M{"_id": objID, "owner_id": ownerID}, update)
	}
}

// one point per 100 spent; plain read-then-write, last writer wins
func accrueLoyaltyPoints(ctx context.Context, ownerID, customerID string, total float64) {
	objID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return
	}
	var customer models.Customer
	if err := config.CustomerCollection.FindOne(ctx, bson.M{"_id": objID, "owner_id": ownerID}).Decode(&customer); err != nil {
		return
	}
	earned := int64(total / 100)
	if earned <= 0 {
		return
	}
	config.CustomerCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"points": customer.Points + earned},
	})
}

// GetSales lists the tenant's sales, newest first, optionally bounded by
// from/to epoch-millis query params.
func GetSales(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	filter := bson.M{"owner_id": ownerID}
	if rangeFilter := millisRange(c.Query("from"), c.Query("to")); rangeFilter != nil {
		filter["created_at"] = rangeFilter
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := config.SaleCollection.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sales"})
		return
	}
	defer cursor.Close(ctx)

	sales := []models.Sale{}
	if err := cursor.All(ctx, &sales); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode sales"})
		return
	}

	c.JSON(http.StatusOK, sales)
}
