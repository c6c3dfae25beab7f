package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"barpos/config"
	"barpos/models"
	"barpos/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func AuthMiddleware(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token not provided"})
				c.Abort()
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
				c.Abort()
				return
			}
			token = parts[1]
		}

		claims, err := utils.ValidateToken(token)
		if err != nil || claims.Role != role {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}

		c.Set("ownerID", claims.ID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// AgentMiddleware resolves the opaque X-Agent-Token header through the
// public agent_tokens collection. No JWT involved; the token alone grants
// the mapped role on the mapped tenant. roles empty means any agent role.
func AgentMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Agent-Token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Agent token is required"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var mapping models.AgentToken
		err := config.AgentTokenCollection.FindOne(ctx, bson.M{"token": token}).Decode(&mapping)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid agent token"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error validating agent token"})
			}
			c.Abort()
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if mapping.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{"error": "Agent role not allowed"})
				c.Abort()
				return
			}
		}

		c.Set("ownerID", mapping.OwnerID)
		c.Set("role", mapping.Role)
		c.Set("agentCode", mapping.AgentCode)
		c.Set("agentName", mapping.AgentName)

		c.Next()
	}
}

// SubscriptionGate blocks the tenant's API once the plan is expired.
// Profiles predating the plan fields get a trial window backfilled on
// first read.
func SubscriptionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.GetString("ownerID")
		objID, err := primitive.ObjectIDFromHex(ownerID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid owner ID"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var profile models.Profile
		err = config.ProfileCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&profile)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
			c.Abort()
			return
		}

		now := time.Now()
		if profile.Plan == "" && profile.TrialEndsAt == 0 {
			plan, trialEnds := utils.TrialWindow(now)
			profile.Plan = plan
			profile.TrialEndsAt = trialEnds
			// legacy profile backfill, best-effort
			config.ProfileCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
				"$set": bson.M{"plan": plan, "trial_ends_at": trialEnds},
			})
		}

		current := utils.CurrentPlan(profile.Plan, profile.TrialEndsAt, profile.SubscriptionEndsAt, now)
		if current == models.PlanExpired {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Subscription expired"})
			c.Abort()
			return
		}

		c.Set("plan", current)
		c.Next()
	}
}
