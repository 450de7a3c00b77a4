package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create indexes
	err = createIndexes(client, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	// Users collection indexes
	usersCollection := db.Collection("users")
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := usersCollection.Indexes().CreateMany(context.Background(), userIndexes)
	if err != nil {
		return err
	}

	// Clients collection indexes
	clientsCollection := db.Collection("clients")
	clientIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "instagram_handle", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
	}
	_, err = clientsCollection.Indexes().CreateMany(context.Background(), clientIndexes)
	if err != nil {
		return err
	}

	// Schedules: public_link is the sole lookup key for the review flow and
	// must resolve to exactly one client+month+year triple
	schedulesCollection := db.Collection("schedules")
	scheduleIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "public_link", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "year", Value: -1}, {Key: "month", Value: -1}},
		},
	}
	_, err = schedulesCollection.Indexes().CreateMany(context.Background(), scheduleIndexes)
	if err != nil {
		return err
	}

	// Schedule items: order is unique within a schedule
	itemsCollection := db.Collection("schedule_items")
	itemIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "schedule_id", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err = itemsCollection.Indexes().CreateMany(context.Background(), itemIndexes)
	if err != nil {
		return err
	}

	// Item feedbacks: at most one per item. Concurrent review submissions
	// converge on a single row because writes are upserts keyed by item_id.
	feedbacksCollection := db.Collection("item_feedbacks")
	feedbackIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "item_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err = feedbacksCollection.Indexes().CreateMany(context.Background(), feedbackIndexes)
	if err != nil {
		return err
	}

	return nil
}
