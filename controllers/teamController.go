package controllers

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"barpos/config"
	"barpos/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var agentRoles = map[string]bool{
	"server":  true,
	"cashier": true,
	"event":   true,
}

// AddTeamMember creates a staff member and publishes its opaque token in
// the agent_tokens mapping so an unauthenticated device can resolve it.
func AddTeamMember(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	var input struct {
		Name string `json:"name" binding:"required"`
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !agentRoles[input.Role] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be server, cashier or event"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UnixMilli()
	member := models.TeamMember{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Name:      input.Name,
		Role:      input.Role,
		AgentCode: fmt.Sprintf("%s-%04d", input.Role[:1], rand.Intn(10000)),
		Token:     uuid.NewString(),
		Active:    true,
		CreatedAt: now,
	}

	if _, err := config.TeamMemberCollection.InsertOne(ctx, member); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team member"})
		return
	}

	_, err := config.AgentTokenCollection.InsertOne(ctx, models.AgentToken{
		Token:     member.Token,
		OwnerID:   ownerID,
		Role:      member.Role,
		AgentCode: member.AgentCode,
		AgentName: member.Name,
		CreatedAt: now,
	})
	if err != nil {
		// without the mapping the member is unusable
		config.TeamMemberCollection.DeleteOne(ctx, bson.M{"_id": member.ID})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish agent token"})
		return
	}

	c.JSON(http.StatusOK, member)
}

func ListTeamMembers(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.TeamMemberCollection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team members"})
		return
	}
	defer cursor.Close(ctx)

	members := []models.TeamMember{}
	if err := cursor.All(ctx, &members); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode team members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

func DeleteTeamMember(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var member models.TeamMember
	err = config.TeamMemberCollection.FindOne(ctx, bson.M{"_id": objID, "owner_id": ownerID}).Decode(&member)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team member"})
		}
		return
	}

	if _, err := config.TeamMemberCollection.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team member"})
		return
	}

	// token cleanup is best-effort; a stale mapping only grants a role
	// that no longer exists on the team page
	config.AgentTokenCollection.DeleteOne(ctx, bson.M{"token": member.Token})

	c.JSON(http.StatusOK, gin.H{"message": "Team member deleted"})
}

// ResolveAgentToken is the public endpoint an agent device calls first: it
// turns the opaque token into the tenant and role it grants.
func ResolveAgentToken(c *gin.Context) {
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var mapping models.AgentToken
	err := config.AgentTokenCollection.FindOne(ctx, bson.M{"token": token}).Decode(&mapping)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid agent token"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve token"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"owner_id":   mapping.OwnerID,
		"role":       mapping.Role,
		"agent_code": mapping.AgentCode,
		"agent_name": mapping.AgentName,
	})
}
