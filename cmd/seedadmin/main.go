package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"agency-approval-portal/internal/config"
	"agency-approval-portal/models"
	"agency-approval-portal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the first admin account so the portal is usable before any staff
// have registered. Safe to run repeatedly.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	usersCollection := client.Database(cfg.DBName).Collection("users")

	var existing models.User
	err = usersCollection.FindOne(context.Background(), bson.M{"role": "admin"}).Decode(&existing)
	if err == nil {
		fmt.Printf("Admin user already exists: %s\n", existing.Username)
		os.Exit(0)
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}

	hashedPassword, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		Username:     username,
		Name:         "Administrator",
		PasswordHash: hashedPassword,
		Role:         "admin",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	result, err := usersCollection.InsertOne(context.Background(), admin)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user created: %s (id %v)\n", username, result.InsertedID)
}
