package ports

import (
	"context"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
)

// MessageRepository persists per-conversation message logs under the key
// derived from the sorted participant id pair.
type MessageRepository interface {
	Append(ctx context.Context, conversationKey string, msg *domain.Message) error
	List(ctx context.Context, conversationKey string) ([]domain.Message, error)
}

// MessageService handles direct messaging between two members.
type MessageService interface {
	Send(ctx context.Context, senderID, recipientID, text string) (*domain.Message, error)
	Conversation(ctx context.Context, userID, otherID string) ([]domain.Message, error)
}
