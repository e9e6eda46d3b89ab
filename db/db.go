package db

import (
	"context"
	"log"

	"stayhub/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	CollegesCollection      *mongo.Collection
	DepartmentsCollection   *mongo.Collection
	StudentsCollection      *mongo.Collection
	PortersCollection       *mongo.Collection
	AdminsCollection        *mongo.Collection
	HostelsCollection       *mongo.Collection
	RoomsCollection         *mongo.Collection
	BunksCollection         *mongo.Collection
	PaymentsCollection      *mongo.Collection
	PaymentConfigCollection *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	clientOptions := options.Client().ApplyURI(config.Cfg.MongoURI)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("stayhub")
	CollegesCollection = database.Collection("colleges")
	DepartmentsCollection = database.Collection("departments")
	StudentsCollection = database.Collection("students")
	PortersCollection = database.Collection("porters")
	AdminsCollection = database.Collection("admins")
	HostelsCollection = database.Collection("hostels")
	RoomsCollection = database.Collection("rooms")
	BunksCollection = database.Collection("bunks")
	PaymentsCollection = database.Collection("payments")
	PaymentConfigCollection = database.Collection("paymentconfig")
}
