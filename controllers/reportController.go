package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"barpos/config"
	"barpos/models"
	"barpos/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// millisRange turns from/to query params into a created_at filter, nil
// when neither is set.
func millisRange(from, to string) bson.M {
	rangeFilter := bson.M{}
	if from != "" {
		if v, err := strconv.ParseInt(from, 10, 64); err == nil {
			rangeFilter["$gte"] = v
		}
	}
	if to != "" {
		if v, err := strconv.ParseInt(to, 10, 64); err == nil {
			rangeFilter["$lte"] = v
		}
	}
	if len(rangeFilter) == 0 {
		return nil
	}
	return rangeFilter
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Dashboard aggregates sales, orders and cancellations over an optional
// date range.
func Dashboard(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	filter := bson.M{"owner_id": ownerID}
	if rangeFilter := millisRange(c.Query("from"), c.Query("to")); rangeFilter != nil {
		filter["created_at"] = rangeFilter
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := config.SaleCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sales"})
		return
	}
	defer cursor.Close(ctx)

	revenue := 0.0
	salesCount := 0
	byMethod := map[string]float64{}
	for cursor.Next(ctx) {
		var sale models.Sale
		if err := cursor.Decode(&sale); err != nil {
			continue
		}
		revenue += sale.Total
		salesCount++
		byMethod[sale.PaymentMethod] += sale.Total
	}

	ordersCount, _ := config.OrderCollection.CountDocuments(ctx, filter)
	barOrdersCount, _ := config.BarOrderCollection.CountDocuments(ctx, filter)
	cancellationFilter := bson.M{"owner_id": ownerID}
	if rangeFilter := millisRange(c.Query("from"), c.Query("to")); rangeFilter != nil {
		cancellationFilter["cancelled_at"] = rangeFilter
	}
	cancellations, _ := config.CancellationCollection.CountDocuments(ctx, cancellationFilter)

	c.JSON(http.StatusOK, gin.H{
		"sales_count":       salesCount,
		"revenue":           revenue,
		"by_payment_method": byMethod,
		"orders_count":      ordersCount + barOrdersCount,
		"cancellations":     cancellations,
	})
}

// OrderCSVRows flattens orders for export. One row per order; items are
// summarized as "name x qty" joined with " | ".
func OrderCSVRows(orders []models.Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		items := ""
		for i, item := range o.Items {
			if i > 0 {
				items += " | "
			}
			items += fmt.Sprintf("%s x %d", item.Name, item.Quantity)
		}
		rows = append(rows, []string{
			itoa(o.OrderNumber),
			o.TableNumber,
			items,
			formatAmount(o.Total),
			o.Status,
			o.AgentName,
			formatMillis(o.CreatedAt),
		})
	}
	return rows
}

var orderCSVHeaders = []string{"Order", "Table", "Items", "Total", "Status", "Agent", "Created"}

func fetchOrders(c *gin.Context) ([]models.Order, bool) {
	ownerID := c.GetString("ownerID")

	filter := bson.M{"owner_id": ownerID}
	if rangeFilter := millisRange(c.Query("from"), c.Query("to")); rangeFilter != nil {
		filter["created_at"] = rangeFilter
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := orderCollection(c).Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return nil, false
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode orders"})
		return nil, false
	}
	return orders, true
}

func ExportOrdersCSV(c *gin.Context) {
	orders, ok := fetchOrders(c)
	if !ok {
		return
	}

	data, err := utils.BuildCSV(orderCSVHeaders, OrderCSVRows(orders))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func ExportOrdersPDF(c *gin.Context) {
	orders, ok := fetchOrders(c)
	if !ok {
		return
	}

	widths := []float64{15, 15, 70, 25, 20, 25, 20}
	data, err := utils.BuildTablePDF("Orders", orderCSVHeaders, widths, OrderCSVRows(orders))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="orders.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func fetchSales(c *gin.Context) ([]models.Sale, bool) {
	ownerID := c.GetString("ownerID")

	filter := bson.M{"owner_id": ownerID}
	if rangeFilter := millisRange(c.Query("from"), c.Query("to")); rangeFilter != nil {
		filter["created_at"] = rangeFilter
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := config.SaleCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sales"})
		return nil, false
	}
	defer cursor.Close(ctx)

	sales := []models.Sale{}
	if err := cursor.All(ctx, &sales); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode sales"})
		return nil, false
	}
	return sales, true
}

var saleCSVHeaders = []string{"Sale", "Items", "Total", "Payment", "Agent", "Created"}

func SaleCSVRows(sales []models.Sale) [][]string {
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		items := ""
		for i, item := range s.Items {
			if i > 0 {
				items += " | "
			}
			items += fmt.Sprintf("%s x %d", item.Name, item.Quantity)
		}
		rows = append(rows, []string{
			s.ID.Hex(),
			items,
			formatAmount(s.Total),
			s.PaymentMethod,
			s.AgentCode,
			formatMillis(s.CreatedAt),
		})
	}
	return rows
}

func ExportSalesCSV(c *gin.Context) {
	sales, ok := fetchSales(c)
	if !ok {
		return
	}

	data, err := utils.BuildCSV(saleCSVHeaders, SaleCSVRows(sales))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="sales.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func ExportSalesPDF(c *gin.Context) {
	sales, ok := fetchSales(c)
	if !ok {
		return
	}

	widths := []float64{40, 60, 25, 20, 25, 20}
	data, err := utils.BuildTablePDF("Sales", saleCSVHeaders, widths, SaleCSVRows(sales))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="sales.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

var productCSVHeaders = []string{"Name", "Category", "Price", "Stock"}

func productCSVRows(products []models.Product) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.Name,
			p.Category,
			formatAmount(p.Price),
			itoa(p.Quantity),
		})
	}
	return rows
}

func fetchProducts(c *gin.Context) ([]models.Product, bool) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := config.ProductCollection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return nil, false
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode products"})
		return nil, false
	}
	return products, true
}

func ExportProductsCSV(c *gin.Context) {
	products, ok := fetchProducts(c)
	if !ok {
		return
	}

	data, err := utils.BuildCSV(productCSVHeaders, productCSVRows(products))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func ExportProductsPDF(c *gin.Context) {
	products, ok := fetchProducts(c)
	if !ok {
		return
	}

	widths := []float64{70, 45, 40, 35}
	data, err := utils.BuildTablePDF("Products", productCSVHeaders, widths, productCSVRows(products))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="products.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

var customerCSVHeaders = []string{"Name", "Phone", "Email", "Points"}

func customerCSVRows(customers []models.Customer) [][]string {
	rows := make([][]string, 0, len(customers))
	for _, cust := range customers {
		rows = append(rows, []string{
			cust.Name,
			cust.Phone,
			cust.Email,
			itoa(cust.Points),
		})
	}
	return rows
}

func fetchCustomers(c *gin.Context) ([]models.Customer, bool) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := config.CustomerCollection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customers"})
		return nil, false
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode customers"})
		return nil, false
	}
	return customers, true
}

func ExportCustomersCSV(c *gin.Context) {
	customers, ok := fetchCustomers(c)
	if !ok {
		return
	}

	data, err := utils.BuildCSV(customerCSVHeaders, customerCSVRows(customers))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="customers.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func ExportCustomersPDF(c *gin.Context) {
	customers, ok := fetchCustomers(c)
	if !ok {
		return
	}

	widths := []float64{60, 40, 60, 30}
	data, err := utils.BuildTablePDF("Customers", customerCSVHeaders, widths, customerCSVRows(customers))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="customers.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func ExportEventsCSV(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := config.EventCollection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode events"})
		return
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.Name,
			formatMillis(e.Date),
			formatAmount(e.Price),
			itoa(e.Capacity),
			itoa(e.Sold),
		})
	}

	data, err := utils.BuildCSV([]string{"Name", "Date", "Price", "Capacity", "Sold"}, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="events.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func ExportPaymentsCSV(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := config.PaymentCollection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
		return
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode payments"})
		return
	}

	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			p.Reference,
			formatAmount(p.Amount),
			p.Phone,
			p.Status,
			formatMillis(p.CreatedAt),
		})
	}

	data, err := utils.BuildCSV([]string{"Reference", "Amount", "Phone", "Status", "Created"}, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="payments.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func ExportTeamCSV(c *gin.Context) {
	ownerID := c.GetString("ownerID")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.Name,
			m.Role,
			m.AgentCode,
			formatMillis(m.CreatedAt),
		})
	}

	data, err := utils.BuildCSV([]string{"Name", "Role", "Code", "Created"}, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="team.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
