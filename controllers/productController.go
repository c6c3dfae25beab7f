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
	"go.mongodb.org/mongo-driver/mongo"
)

func AddProduct(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	var input struct {
		Name     string          `json:"name" binding:"required"`
		Price    float64         `json:"price"`
		Quantity int64           `json:"quantity"`
		Category string          `json:"category"`
		Formula  *models.Formula `json:"formula"`
		PhotoURL string          `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Price < 0 || input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price and quantity must not be negative"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UnixMilli()
	product := models.Product{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Name:      input.Name,
		Price:     input.Price,
		Quantity:  input.Quantity,
		Category:  input.Category,
		Formula:   input.Formula,
		PhotoURL:  input.PhotoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := config.ProductCollection.InsertOne(ctx, product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func GetAllProducts(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	filter := bson.M{"owner_id": ownerID}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.ProductCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func GetProduct(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var product models.Product
	err = config.ProductCollection.FindOne(ctx, bson.M{"_id": objID, "owner_id": ownerID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

func EditProduct(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var input models.UpdateProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{"updated_at": time.Now().UnixMilli()}
	if input.Name != "" {
		update["name"] = input.Name
	}
	if input.Price != nil {
		update["price"] = *input.Price
	}
	if input.Quantity != nil {
		update["quantity"] = *input.Quantity
	}
	if input.Category != "" {
		update["category"] = input.Category
	}
	if input.Formula != nil {
		update["formula"] = input.Formula
	}
	if input.PhotoURL != "" {
		update["photo_url"] = input.PhotoURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := config.ProductCollection.UpdateOne(ctx,
		bson.M{"_id": objID, "owner_id": ownerID},
		bson.M{"$set": update},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

func DeleteProduct(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := config.ProductCollection.DeleteOne(ctx, bson.M{"_id": objID, "owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// GetLowStockProducts lists products at or below the threshold (default 5).
func GetLowStockProducts(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	threshold := int64(5)
	if t := c.Query("threshold"); t != "" {
		if parsed, err := strconv.ParseInt(t, 10, 64); err == nil {
			threshold = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.ProductCollection.Find(ctx, bson.M{
		"owner_id": ownerID,
		"quantity": bson.M{"$lte": threshold},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode products"})
		return
	}

	c.JSON(http.StatusOK, products)
}
