package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
)

// MessageRepository stores each conversation as one serialized log under its
// sorted-pair key, the same layout the browser-storage revision used.
type MessageRepository struct {
	store *Store
}

func NewMessageRepository(store *Store) *MessageRepository {
	return &MessageRepository{store: store}
}

func (r *MessageRepository) Append(_ context.Context, conversationKey string, msg *domain.Message) error {
	return r.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConversations)

		var log []domain.Message
		if raw := b.Get([]byte(conversationKey)); raw != nil {
			if err := json.Unmarshal(raw, &log); err != nil {
				return fmt.Errorf("decode conversation %s: %w", conversationKey, err)
			}
		}
		log = append(log, *msg)

		payload, err := json.Marshal(log)
		if err != nil {
			return err
		}
		return b.Put([]byte(conversationKey), payload)
	})
}

func (r *MessageRepository) List(_ context.Context, conversationKey string) ([]domain.Message, error) {
	var log []domain.Message
	err := r.store.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketConversations).Get([]byte(conversationKey))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &log)
	})
	if err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", conversationKey, err)
	}
	return log, nil
}
