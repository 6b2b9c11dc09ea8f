package domain

import "time"

// Event is a community gathering shown on the events page.
type Event struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	StartsAt    time.Time `json:"starts_at" bson:"starts_at"`
	Location    string    `json:"location" bson:"location"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
