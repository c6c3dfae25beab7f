package controllers

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"barpos/config"
	"barpos/models"
	"barpos/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Temporary storage for verification codes. Handlers run concurrently,
// so every access holds the mutex.
var (
	codeMu            sync.Mutex
	verificationCodes = make(map[string]string)
	codeExpiry        = make(map[string]time.Time)
)

func storeVerificationCode(email, code string, ttl time.Duration) {
	codeMu.Lock()
	defer codeMu.Unlock()
	verificationCodes[email] = code
	codeExpiry[email] = time.Now().Add(ttl)
}

func checkVerificationCode(email, code string) bool {
	codeMu.Lock()
	defer codeMu.Unlock()
	expected, ok := verificationCodes[email]
	return ok && expected == code && time.Now().Before(codeExpiry[email])
}

func clearVerificationCode(email string) {
	codeMu.Lock()
	defer codeMu.Unlock()
	delete(verificationCodes, email)
	delete(codeExpiry, email)
}

func generateVerificationCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

func Register(c *gin.Context) {
	var input struct {
		EstablishmentName string `json:"establishment_name" binding:"required"`
		Email             string `json:"email" binding:"required,email"`
		Phone             string `json:"phone"`
		Password          string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := config.ProfileCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing account"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	plan, trialEnds := utils.TrialWindow(now)
	profile := models.Profile{
		ID:                primitive.NewObjectID(),
		EstablishmentName: input.EstablishmentName,
		Email:             input.Email,
		Phone:             input.Phone,
		Password:          hash,
		Role:              "admin",
		Plan:              plan,
		TrialEndsAt:       trialEnds,
		CreatedAt:         now.UnixMilli(),
	}

	if _, err := config.ProfileCollection.InsertOne(ctx, profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := utils.GenerateToken(profile.ID.Hex(), "admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err := config.ProfileCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&profile)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := utils.VerifyPassword(profile.Password, input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := utils.GenerateToken(profile.ID.Hex(), "admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	profile.Password = ""
	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}

// GetProfile returns the owner profile plus the derived current plan,
// backfilling the trial fields on legacy documents.
func GetProfile(c *gin.Context) {
	ownerID := c.GetString("ownerID")
	objID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err = config.ProfileCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		}
		return
	}

	now := time.Now()
	if profile.Plan == "" && profile.TrialEndsAt == 0 {
		plan, trialEnds := utils.TrialWindow(now)
		profile.Plan = plan
		profile.TrialEndsAt = trialEnds
		config.ProfileCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
			"$set": bson.M{"plan": plan, "trial_ends_at": trialEnds},
		})
	}

	profile.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"profile":      profile,
		"current_plan": utils.CurrentPlan(profile.Plan, profile.TrialEndsAt, profile.SubscriptionEndsAt, now),
	})
}

// ActivateSubscription extends the paid window by 30 days. Called after a
// subscription payment is confirmed.
func ActivateSubscription(c *gin.Context) {
	ownerID := c.GetString("ownerID")
	objID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	endsAt := time.Now().Add(30 * 24 * time.Hour).UnixMilli()
	_, err = config.ProfileCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"plan": models.PlanActive, "subscription_ends_at": endsAt},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": models.PlanActive, "subscription_ends_at": endsAt})
}

// RequestPasswordReset emails a 6-digit code with a 10 minute lifetime.
func RequestPasswordReset(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err := config.ProfileCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&profile)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	code := generateVerificationCode()
	storeVerificationCode(input.Email, code, 10*time.Minute)

	if err := utils.SendEmail(input.Email, "Password reset code", "Your verification code: "+code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

func VerifyCode(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !checkVerificationCode(input.Email, input.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code verified"})
}

func ResetPassword(c *gin.Context) {
	var input struct {
		Email       string `json:"email" binding:"required"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !checkVerificationCode(input.Email, input.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = config.ProfileCollection.UpdateOne(ctx, bson.M{"email": input.Email}, bson.M{
		"$set": bson.M{"password": hash},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	clearVerificationCode(input.Email)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}
