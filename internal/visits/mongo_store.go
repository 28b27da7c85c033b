package visits

import (
	"context"
	"fmt"

	"github.com/cankoe/visit-recorder/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

// Insert upserts on _id so a colliding AccessTime overwrites instead of failing
// with a duplicate key error.
func (s *MongoStore) Insert(ctx context.Context, v models.Visit) error {
	filter := bson.M{"_id": v.AccessTime}
	if _, err := s.col.ReplaceOne(ctx, filter, v, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to store visit: %w", err)
	}
	return nil
}

func (s *MongoStore) ReadAll(ctx context.Context) ([]models.Visit, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch visits: %w", err)
	}
	defer cursor.Close(ctx)

	visits := []models.Visit{}
	if err := cursor.All(ctx, &visits); err != nil {
		return nil, fmt.Errorf("failed to decode visits: %w", err)
	}
	return visits, nil
}
