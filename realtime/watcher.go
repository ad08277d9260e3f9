package realtime

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// changeEvent is the slice of a change-stream document the relay cares about.
type changeEvent struct {
	OperationType string `bson:"operationType"`
	FullDocument  bson.M `bson:"fullDocument"`
	DocumentKey   struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
	NS struct {
		Coll string `bson:"coll"`
	} `bson:"ns"`
}

var watchedCollections = map[string]string{
	"menuItems": "menu",
	"orders":    "order",
}

// Watch relays catalog and ledger mutations from the database change stream to
// the websocket hub. Delivery is best effort: the stream is reopened after
// errors and nothing downstream may rely on receiving these events.
func Watch(ctx context.Context, db *mongo.Database) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ns.coll": bson.M{"$in": []string{"menuItems", "orders"}}}}},
	}

	for {
		stream, err := db.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
		if err != nil {
			logrus.Printf("change stream unavailable: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
				continue
			}
		}

		logrus.Printf("watching change stream on %s", db.Name())
		for stream.Next(ctx) {
			var ev changeEvent
			if err := stream.Decode(&ev); err != nil {
				logrus.Printf("failed to decode change event: %v", err)
				continue
			}
			relay(ev)
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logrus.Printf("change stream closed: %v", err)
		}
		stream.Close(context.Background())

		if ctx.Err() != nil {
			return
		}
	}
}

func relay(ev changeEvent) {
	prefix, ok := watchedCollections[ev.NS.Coll]
	if !ok {
		return
	}

	switch ev.OperationType {
	case "insert":
		Emit(prefix+":created", ev.FullDocument)
	case "update", "replace":
		Emit(prefix+":updated", ev.FullDocument)
	case "delete":
		Emit(prefix+":deleted", map[string]string{"id": ev.DocumentKey.ID.Hex()})
	}
}
