package utils

import (
	"context"
	"log"
	"time"

	"barpos/config"
	"barpos/models"

	"go.mongodb.org/mongo-driver/bson"
)

// CurrentPlan derives the effective plan from the stored fields and the
// clock. Pure: same inputs, same answer.
//   - "active" requires plan=="active" and subscription_ends_at in the future
//   - otherwise "trial" while trial_ends_at is in the future
//   - otherwise "expired"
func CurrentPlan(plan string, trialEndsAt, subscriptionEndsAt int64, now time.Time) string {
	nowMs := now.UnixMilli()
	if plan == models.PlanActive && subscriptionEndsAt > nowMs {
		return models.PlanActive
	}
	if trialEndsAt > nowMs {
		return models.PlanTrial
	}
	return models.PlanExpired
}

// TrialWindow returns the plan fields for a fresh 14-day trial, used both
// at registration and as lazy backfill for legacy profiles.
func TrialWindow(now time.Time) (string, int64) {
	return models.PlanTrial, now.Add(14 * 24 * time.Hour).UnixMilli()
}

// SweepExpiredSubscriptions marks lapsed profiles expired and leaves a
// notification. Runs daily from the scheduler.
func SweepExpiredSubscriptions() {
	log.Println("Running subscription sweep")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cursor, err := config.ProfileCollection.Find(ctx, bson.M{"plan": bson.M{"$ne": models.PlanExpired}})
	if err != nil {
		log.Printf("subscription sweep: %v", err)
		return
	}
	defer cursor.Close(ctx)

	now := time.Now()
	expired := 0
	for cursor.Next(ctx) {
		var profile models.Profile
		if err := cursor.Decode(&profile); err != nil {
			continue
		}

		if CurrentPlan(profile.Plan, profile.TrialEndsAt, profile.SubscriptionEndsAt, now) != models.PlanExpired {
			continue
		}

		_, err := config.ProfileCollection.UpdateOne(ctx, bson.M{"_id": profile.ID}, bson.M{
			"$set": bson.M{"plan": models.PlanExpired},
		})
		if err != nil {
			log.Printf("subscription sweep: update %s: %v", profile.ID.Hex(), err)
			continue
		}
		expired++

		// best-effort, same as every other notification write
		config.NotificationCollection.InsertOne(ctx, models.Notification{
			OwnerID:   profile.ID.Hex(),
			Type:      "subscription",
			Message:   "Your subscription has expired. Renew to keep using the app.",
			CreatedAt: now.UnixMilli(),
		})
	}

	log.Printf("Subscription sweep done, %d profiles expired", expired)
}
