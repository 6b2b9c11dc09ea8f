package mongo

import (
	"context"
	"fmt"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventCollection = "events"

// MongoEventRepository persists the community event catalog.
type MongoEventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{coll: db.Collection(eventCollection)}
}

func (r *MongoEventRepository) Insert(ctx context.Context, event *domain.Event) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *MongoEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cur.Close(ctx)

	var events []domain.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}
