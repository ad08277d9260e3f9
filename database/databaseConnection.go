package database

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func DBinstance() *mongo.Client {
	if err := godotenv.Load(); err != nil {
		logrus.Printf("no .env file loaded: %v", err)
	}

	mongoURL := os.Getenv("MONGODB_URL")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		logrus.Fatalf("failed to create mongo client: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logrus.Printf("mongo not reachable yet: %v", err)
	} else {
		logrus.Printf("connected to mongodb")
	}

	return client
}

var Client *mongo.Client = DBinstance()

func DatabaseName() string {
	name := os.Getenv("DATABASE_NAME")
	if name == "" {
		name = "khana-lineup"
	}
	return name
}

func OpenCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(DatabaseName()).Collection(collectionName)
}
