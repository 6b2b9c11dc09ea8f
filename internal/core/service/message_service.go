package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fetchsocial/fetch-api/internal/api/metrics"
	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

type messageService struct {
	repo  ports.MessageRepository
	store ports.IdentityStore
	log   zerolog.Logger
}

// NewMessageService returns a MessageService backed by the given
// conversation log repository.
func NewMessageService(repo ports.MessageRepository, store ports.IdentityStore, log zerolog.Logger) ports.MessageService {
	return &messageService{repo: repo, store: store, log: log}
}

func (s *messageService) Send(ctx context.Context, senderID, recipientID, text string) (*domain.Message, error) {
	if text == "" || senderID == recipientID {
		return nil, domain.ErrForbidden
	}

	sender, err := s.store.GetProfile(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender.Blocked {
		return nil, domain.ErrUserBlocked
	}
	if _, err := s.store.GetProfile(ctx, recipientID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		SenderName: sender.Name,
		SenderRole: sender.Role,
		Text:       text,
		Timestamp:  time.Now().UTC(),
	}

	key := domain.ConversationKey(senderID, recipientID)
	if err := s.repo.Append(ctx, key, msg); err != nil {
		return nil, err
	}

	metrics.MessagesSentTotal.Inc()
	s.log.Debug().Str("conversation", key).Str("sender_id", senderID).Msg("message stored")
	return msg, nil
}

func (s *messageService) Conversation(ctx context.Context, userID, otherID string) ([]domain.Message, error) {
	if _, err := s.store.GetProfile(ctx, otherID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, domain.ConversationKey(userID, otherID))
}
