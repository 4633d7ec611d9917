package model

import "time"

// Document is a free-text document owned by a client.
// Documents are immutable after creation; there is no update path.
type Document struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
