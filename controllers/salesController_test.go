package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"barpos/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func productFixture(name string, price float64, stock int64) models.Product {
	return models.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Price:    price,
		Quantity: stock,
	}
}

func TestBuildSalePlanDecrementsAndTotals(t *testing.T) {
	beer := productFixture("Beer", 1000, 5)
	cola := productFixture("Cola", 500, 5)
	products := map[string]models.Product{
		beer.ID.Hex(): beer,
		cola.ID.Hex(): cola,
	}
	cart := []models.CartItem{
		{ProductID: beer.ID.Hex(), Quantity: 2},
		{ProductID: cola.ID.Hex(), Quantity: 1},
	}

	plan, total, err := BuildSalePlan(cart, products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2500 {
		t.Errorf("total = %v, want 2500", total)
	}
	if len(plan) != 2 {
		t.Fatalf("plan has %d lines, want 2", len(plan))
	}
	if plan[0].NewStock != 3 {
		t.Errorf("beer new stock = %d, want 3", plan[0].NewStock)
	}
	if plan[1].NewStock != 4 {
		t.Errorf("cola new stock = %d, want 4", plan[1].NewStock)
	}
}

func TestBuildSalePlanInsufficientStock(t *testing.T) {
	beer := productFixture("Beer", 1000, 1)
	cola := productFixture("Cola", 500, 5)
	products := map[string]models.Product{
		beer.ID.Hex(): beer,
		cola.ID.Hex(): cola,
	}
	cart := []models.CartItem{
		{ProductID: beer.ID.Hex(), Quantity: 3},
		{ProductID: cola.ID.Hex(), Quantity: 1},
	}

	plan, _, err := BuildSalePlan(cart, products)
	if plan != nil {
		t.Fatalf("expected no plan on shortfall, got %v", plan)
	}
	var insufficient *ErrInsufficientStock
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if len(insufficient.Adjustments) != 1 {
		t.Fatalf("adjustments = %d, want 1", len(insufficient.Adjustments))
	}
	adj := insufficient.Adjustments[0]
	if adj.Name != "Beer" || adj.Requested != 3 || adj.Available != 1 {
		t.Errorf("adjustment = %+v, want Beer requested 3 available 1", adj)
	}
}

func TestBuildSalePlanProductNotFound(t *testing.T) {
	products := map[string]models.Product{}
	cart := []models.CartItem{{ProductID: "missing", Quantity: 1}}

	_, _, err := BuildSalePlan(cart, products)
	if err == nil || !isNotFound(err) {
		t.Fatalf("expected product not found error, got %v", err)
	}
}

func TestBuildSalePlanFormulaLine(t *testing.T) {
	beer := productFixture("Beer", 1000, 12)
	beer.Formula = &models.Formula{Units: 6, Price: 5000}
	products := map[string]models.Product{beer.ID.Hex(): beer}
	cart := []models.CartItem{{ProductID: beer.ID.Hex(), Quantity: 2, IsFormula: true}}

	plan, total, err := BuildSalePlan(cart, products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 10000 {
		t.Errorf("total = %v, want 10000", total)
	}
	if plan[0].NewStock != 0 {
		t.Errorf("new stock = %d, want 0 after two six-packs from 12", plan[0].NewStock)
	}
}

func TestBuildSalePlanFormulaClampInBundles(t *testing.T) {
	beer := productFixture("Beer", 1000, 7)
	beer.Formula = &models.Formula{Units: 6, Price: 5000}
	products := map[string]models.Product{beer.ID.Hex(): beer}
	cart := []models.CartItem{{ProductID: beer.ID.Hex(), Quantity: 2, IsFormula: true}}

	_, _, err := BuildSalePlan(cart, products)
	var insufficient *ErrInsufficientStock
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if insufficient.Adjustments[0].Available != 1 {
		t.Errorf("available bundles = %d, want 1", insufficient.Adjustments[0].Available)
	}
}

func TestBuildSalePlanRejectsNonPositiveQuantity(t *testing.T) {
	beer := productFixture("Beer", 1000, 5)
	products := map[string]models.Product{beer.ID.Hex(): beer}
	cart := []models.CartItem{{ProductID: beer.ID.Hex(), Quantity: 0}}

	_, _, err := BuildSalePlan(cart, products)
	if err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

func TestBuildSalePlanRepeatedLinesShareOneBalance(t *testing.T) {
	beer := productFixture("Beer", 1000, 5)
	products := map[string]models.Product{beer.ID.Hex(): beer}
	cart := []models.CartItem{
		{ProductID: beer.ID.Hex(), Quantity: 2},
		{ProductID: beer.ID.Hex(), Quantity: 2},
	}

	plan, total, err := BuildSalePlan(cart, products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4000 {
		t.Errorf("total = %v, want 4000", total)
	}
	if plan[0].NewStock != 3 {
		t.Errorf("first line new stock = %d, want 3", plan[0].NewStock)
	}
	if plan[1].NewStock != 1 {
		t.Errorf("second line new stock = %d, want 1 after both draws", plan[1].NewStock)
	}
}

func TestBuildSalePlanRepeatedLinesCannotOversell(t *testing.T) {
	beer := productFixture("Beer", 1000, 5)
	products := map[string]models.Product{beer.ID.Hex(): beer}
	cart := []models.CartItem{
		{ProductID: beer.ID.Hex(), Quantity: 3},
		{ProductID: beer.ID.Hex(), Quantity: 3},
	}

	plan, _, err := BuildSalePlan(cart, products)
	if plan != nil {
		t.Fatalf("expected no plan when combined lines exceed stock, got %v", plan)
	}
	var insufficient *ErrInsufficientStock
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	adj := insufficient.Adjustments[0]
	if adj.Requested != 3 || adj.Available != 2 {
		t.Errorf("adjustment = %+v, want requested 3 available 2 after the first draw", adj)
	}
}

func TestFinalizeSaleRejectsNegativeQuantity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"items":[{"product_id":"abc","quantity":-2}],"payment_method":"cash"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	FinalizeSale(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
