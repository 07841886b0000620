package models

import "github.com/google/uuid"

// Message is the envelope written to Kafka. Content is the JSON payload and
// Hash its base64 SHA-256 digest.
type Message struct {
	ID      uuid.UUID `json:"id"`
	Key     string    `json:"key"`
	Content string    `json:"content"`
	Hash    string    `json:"hash"`
}
