package config

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client                 *mongo.Client
	ProfileCollection      *mongo.Collection
	TeamMemberCollection   *mongo.Collection
	AgentTokenCollection   *mongo.Collection
	CustomerCollection     *mongo.Collection
	ProductCollection      *mongo.Collection
	OrderCollection        *mongo.Collection
	BarOrderCollection     *mongo.Collection
	SaleCollection         *mongo.Collection
	CancellationCollection *mongo.Collection
	EventCollection        *mongo.Collection
	TicketCollection       *mongo.Collection
	PaymentCollection      *mongo.Collection
	NotificationCollection *mongo.Collection
)

func ConnectDatabase() {
	client, err := mongo.NewClient(options.Client().ApplyURI(os.Getenv("MONGO_URI")))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "barpos"
	}

	Client = client
	db := client.Database(dbName)
	ProfileCollection = db.Collection("profiles")
	TeamMemberCollection = db.Collection("teammembers")
	AgentTokenCollection = db.Collection("agenttokens")
	CustomerCollection = db.Collection("customers")
	ProductCollection = db.Collection("products")
	OrderCollection = db.Collection("orders")
	BarOrderCollection = db.Collection("barorders")
	SaleCollection = db.Collection("sales")
	CancellationCollection = db.Collection("ordercancellations")
	EventCollection = db.Collection("events")
	TicketCollection = db.Collection("tickets")
	PaymentCollection = db.Collection("payments")
	NotificationCollection = db.Collection("notifications")
	log.Println("Connected to MongoDB")
}
