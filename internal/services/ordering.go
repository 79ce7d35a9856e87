package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nextOrder returns 1 + the highest order value among the owner's documents
// in the given collection, or 0 if the owner has none. Order values are
// monotonic sort keys only; deletes and cross-project moves leave gaps and
// the store never compacts them.
func nextOrder(ctx context.Context, collection *mongo.Collection, userID string) (int64, error) {
	var last struct {
		Order int64 `bson:"order"`
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})
	err := collection.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find highest order: %w", err)
	}

	return last.Order + 1, nil
}
