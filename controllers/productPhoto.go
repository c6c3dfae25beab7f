package controllers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"barpos/config"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nfnt/resize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxFileSize       = 5 * 1024 * 1024
	compressThreshold = 1 * 1024 * 1024
)

var s3Client *minio.Client

// initS3 wires the optional object-store mirror; without MINIO_ENDPOINT
// photos stay on local disk only.
func initS3() {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		return
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: true,
	})
	if err == nil {
		s3Client = client
	}
}

func init() {
	initS3()
}

// saveProductPhoto stores the upload under ./uploads/products, compressing
// anything above 1MB to a 800px JPEG, and returns the filename.
func saveProductPhoto(c *gin.Context, file *multipart.FileHeader, productID string) (string, error) {
	if file.Size > maxFileSize {
		return "", fmt.Errorf("file size exceeds the 5MB limit")
	}

	fileExt := strings.ToLower(filepath.Ext(file.Filename))

	productDir := "./uploads/products"
	if _, err := os.Stat(productDir); os.IsNotExist(err) {
		if err := os.MkdirAll(productDir, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create product directory: %v", err)
		}
	}

	filename := fmt.Sprintf("%s_%d%s", productID, time.Now().Unix(), fileExt)
	fullPath := filepath.Join(productDir, filename)

	srcFile, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer srcFile.Close()

	if file.Size > compressThreshold {
		var img image.Image
		if fileExt == ".png" {
			img, err = png.Decode(srcFile)
		} else {
			img, err = jpeg.Decode(srcFile)
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode image: %v", err)
		}

		compressedImg := resize.Resize(800, 0, img, resize.Lanczos3)

		outFile, err := os.Create(fullPath)
		if err != nil {
			return "", fmt.Errorf("failed to create file: %v", err)
		}
		defer outFile.Close()

		if err := jpeg.Encode(outFile, compressedImg, &jpeg.Options{Quality: 80}); err != nil {
			return "", fmt.Errorf("failed to save compressed image: %v", err)
		}
	} else {
		if err := c.SaveUploadedFile(file, fullPath); err != nil {
			return "", fmt.Errorf("failed to save product photo: %v", err)
		}
	}

	// mirror to the object store when configured, best-effort
	if s3Client != nil {
		if data, err := os.ReadFile(fullPath); err == nil {
			bucket := os.Getenv("MINIO_BUCKET")
			s3Client.PutObject(context.Background(), bucket, "products/"+filename,
				bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: "image/jpeg"})
		}
	}

	return filename, nil
}

// UploadProductPhoto handles the multipart upload and links the stored
// filename to the product document.
func UploadProductPhoto(c *gin.Context) {
	ownerID := c.GetString("ownerID")
	productID := c.Param("id")

	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}

	filename, err := saveProductPhoto(c, file, productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	photoURL := "/uploads/products/" + filename
	res, err := config.ProductCollection.UpdateOne(ctx,
		bson.M{"_id": objID, "owner_id": ownerID},
		bson.M{"$set": bson.M{"photo_url": photoURL, "updated_at": time.Now().UnixMilli()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": photoURL})
}
