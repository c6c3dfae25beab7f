package utils

import (
	"testing"
	"time"

	"barpos/models"
)

func TestCurrentPlan(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour).UnixMilli()
	future := now.Add(time.Hour).UnixMilli()

	tests := []struct {
		name               string
		plan               string
		trialEndsAt        int64
		subscriptionEndsAt int64
		want               string
	}{
		{"active with future subscription", models.PlanActive, 0, future, models.PlanActive},
		{"active plan but lapsed subscription", models.PlanActive, 0, past, models.PlanExpired},
		{"active plan lapsed but trial still running", models.PlanActive, future, past, models.PlanTrial},
		{"trial running", models.PlanTrial, future, 0, models.PlanTrial},
		{"trial over", models.PlanTrial, past, 0, models.PlanExpired},
		{"empty legacy fields", "", 0, 0, models.PlanExpired},
		{"subscription ends exactly now", models.PlanActive, 0, now.UnixMilli(), models.PlanExpired},
		{"trial ends exactly now", models.PlanTrial, now.UnixMilli(), 0, models.PlanExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentPlan(tt.plan, tt.trialEndsAt, tt.subscriptionEndsAt, now)
			if got != tt.want {
				t.Errorf("CurrentPlan = %q, want %q", got, tt.want)
			}
			// pure: asking twice changes nothing
			if again := CurrentPlan(tt.plan, tt.trialEndsAt, tt.subscriptionEndsAt, now); again != got {
				t.Errorf("CurrentPlan not deterministic: %q then %q", got, again)
			}
		})
	}
}
