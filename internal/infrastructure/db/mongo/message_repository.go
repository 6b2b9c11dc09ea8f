package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messageCollection = "messages"

// MongoMessageRepository stores one document per message, tagged with the
// conversation key shared by both participants.
type MongoMessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{coll: db.Collection(messageCollection)}
}

type mongoMessage struct {
	ID              string `bson:"_id"`
	ConversationKey string `bson:"conversation_key"`
	SenderID        string `bson:"sender_id"`
	SenderName      string `bson:"sender_name,omitempty"`
	SenderRole      string `bson:"sender_role,omitempty"`
	Text            string `bson:"text"`
	Timestamp       int64  `bson:"timestamp"`
}

func (r *MongoMessageRepository) Append(ctx context.Context, conversationKey string, msg *domain.Message) error {
	doc := mongoMessage{
		ID:              msg.ID,
		ConversationKey: conversationKey,
		SenderID:        msg.SenderID,
		SenderName:      msg.SenderName,
		SenderRole:      string(msg.SenderRole),
		Text:            msg.Text,
		Timestamp:       msg.Timestamp.UnixMilli(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MongoMessageRepository) List(ctx context.Context, conversationKey string) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"conversation_key": conversationKey}, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cur.Close(ctx)

	var msgs []domain.Message
	for cur.Next(ctx) {
		var mm mongoMessage
		if err := cur.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		msgs = append(msgs, domain.Message{
			ID:         mm.ID,
			SenderID:   mm.SenderID,
			SenderName: mm.SenderName,
			SenderRole: domain.Role(mm.SenderRole),
			Text:       mm.Text,
			Timestamp:  time.UnixMilli(mm.Timestamp).UTC(),
		})
	}
	return msgs, cur.Err()
}
