package domain

import "time"

// Message is a single direct message inside a two-party conversation.
type Message struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	SenderID   string    `json:"sender_id" bson:"sender_id"`
	SenderName string    `json:"sender_name,omitempty" bson:"sender_name,omitempty"`
	SenderRole Role      `json:"sender_role,omitempty" bson:"sender_role,omitempty"`
	Text       string    `json:"text" bson:"text"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// ConversationKey derives the storage key shared by both participants of a
// conversation. Ids are sorted so either side computes the same key.
func ConversationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}
