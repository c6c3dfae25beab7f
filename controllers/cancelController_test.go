package controllers

import (
	"testing"
	"time"

	"barpos/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanCancelOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ageMinutes := func(m int) int64 {
		return now.Add(-time.Duration(m) * time.Minute).UnixMilli()
	}

	tests := []struct {
		name      string
		status    string
		createdAt int64
		want      bool
	}{
		{"served never cancellable", models.OrderServed, ageMinutes(1), false},
		{"completed never cancellable", models.OrderCompleted, ageMinutes(1), false},
		{"pending always cancellable", models.OrderPending, ageMinutes(600), true},
		{"sent inside window", models.OrderSent, ageMinutes(29), true},
		{"sent at window edge", models.OrderSent, ageMinutes(30), true},
		{"sent past window", models.OrderSent, ageMinutes(31), false},
		{"validated inside window", models.OrderValidated, ageMinutes(10), true},
		{"validated past window", models.OrderValidated, ageMinutes(45), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := CanCancelOrder(tt.status, tt.createdAt, now)
			if got != tt.want {
				t.Errorf("CanCancelOrder(%s) = %v (%s), want %v", tt.status, got, reason, tt.want)
			}
			if !got && reason == "" {
				t.Error("rejection must carry a reason")
			}
		})
	}
}

func TestMatchRefundSale(t *testing.T) {
	orderCreated := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC).UnixMilli()
	window := int64(30 * 60 * 1000)

	sale := func(total float64, offset int64) models.Sale {
		return models.Sale{
			ID:            primitive.NewObjectID(),
			Total:         total,
			PaymentMethod: models.PayCard,
			CreatedAt:     orderCreated + offset,
		}
	}

	tests := []struct {
		name  string
		sales []models.Sale
		total float64
		want  bool
	}{
		{"exact total inside window", []models.Sale{sale(2500, 1000)}, 2500, true},
		{"total off by less than one", []models.Sale{sale(2500.5, 1000)}, 2500, true},
		{"total off by exactly one", []models.Sale{sale(2501, 1000)}, 2500, false},
		{"sale at window start", []models.Sale{sale(2500, 0)}, 2500, true},
		{"sale at window end", []models.Sale{sale(2500, window)}, 2500, true},
		{"sale after window", []models.Sale{sale(2500, window + 1)}, 2500, false},
		{"sale before order", []models.Sale{sale(2500, -1)}, 2500, false},
		{"no sales", nil, 2500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchRefundSale(tt.total, orderCreated, tt.sales)
			if (got != nil) != tt.want {
				t.Errorf("MatchRefundSale = %v, want match=%v", got, tt.want)
			}
		})
	}
}

func TestMatchRefundSaleFirstMatchWins(t *testing.T) {
	orderCreated := int64(1_000_000)
	first := models.Sale{ID: primitive.NewObjectID(), Total: 2500, PaymentMethod: models.PayCash, CreatedAt: orderCreated + 100}
	second := models.Sale{ID: primitive.NewObjectID(), Total: 2500, PaymentMethod: models.PayCard, CreatedAt: orderCreated + 200}

	got := MatchRefundSale(2500, orderCreated, []models.Sale{first, second})
	if got == nil || got.PaymentMethod != models.PayCash {
		t.Fatalf("expected the first matching sale, got %+v", got)
	}
}
