package controllers

import (
	"bytes"
	"encoding/csv"
	"testing"

	"barpos/models"
	"barpos/utils"
)

func TestOrderCSVRowsRoundTrip(t *testing.T) {
	orders := []models.Order{
		{
			OrderNumber: 1,
			TableNumber: "4",
			Items:       []models.OrderItem{{Name: "Beer", Quantity: 2}, {Name: "Cola", Quantity: 1}},
			Total:       2500,
			Status:      models.OrderCompleted,
			AgentName:   "Mbarga, Jean",
			CreatedAt:   1767225600000,
		},
		{
			OrderNumber: 2,
			Items:       []models.OrderItem{{Name: "Water", Quantity: 1}},
			Total:       1000,
			Status:      models.OrderPending,
			AgentName:   "Awa",
			CreatedAt:   1767225700000,
		},
	}

	data, err := utils.BuildCSV(orderCSVHeaders, OrderCSVRows(orders))
	if err != nil {
		t.Fatal(err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	parsed, err := r.ReadAll()
	if err != nil {
		t.Fatalf("re-parsing export: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("parsed %d records, want 3", len(parsed))
	}

	if parsed[1][3] != "2500" || parsed[2][3] != "1000" {
		t.Errorf("totals = %q, %q; want 2500 and 1000", parsed[1][3], parsed[2][3])
	}
	if parsed[1][5] != "Mbarga, Jean" {
		t.Errorf("agent with embedded comma = %q, want %q", parsed[1][5], "Mbarga, Jean")
	}
	if parsed[1][2] != "Beer x 2 | Cola x 1" {
		t.Errorf("items = %q", parsed[1][2])
	}
}

func TestProductAndCustomerPDFExports(t *testing.T) {
	products := []models.Product{
		{Name: "Beer", Category: "drinks", Price: 1000, Quantity: 5},
		{Name: "Cola", Category: "drinks", Price: 500, Quantity: 12},
	}
	customers := []models.Customer{
		{Name: "Mbarga, Jean", Phone: "690000001", Points: 25},
	}

	prodRows := productCSVRows(products)
	if len(prodRows) != 2 || prodRows[0][3] != "5" {
		t.Fatalf("product rows = %v", prodRows)
	}
	custRows := customerCSVRows(customers)
	if len(custRows) != 1 || custRows[0][3] != "25" {
		t.Fatalf("customer rows = %v", custRows)
	}

	for _, tc := range []struct {
		title   string
		headers []string
		widths  []float64
		rows    [][]string
	}{
		{"Products", productCSVHeaders, []float64{70, 45, 40, 35}, prodRows},
		{"Customers", customerCSVHeaders, []float64{60, 40, 60, 30}, custRows},
	} {
		data, err := utils.BuildTablePDF(tc.title, tc.headers, tc.widths, tc.rows)
		if err != nil {
			t.Fatalf("%s PDF: %v", tc.title, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Errorf("%s export is not a PDF document", tc.title)
		}
	}
}
