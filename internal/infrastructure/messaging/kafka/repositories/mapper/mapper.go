package mapper

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/google/uuid"
	"github.com/whiteelite/garage/internal/infrastructure/messaging/kafka/repositories/models"
)

func ToMessage[T any](key string, entity *T) (*models.Message, error) {
	serialized, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}

	return &models.Message{
		ID:      uuid.New(),
		Key:     key,
		Content: string(serialized),
		Hash:    digest(serialized),
	}, nil
}

// FromMessage decodes the payload after checking it against its digest.
func FromMessage[T any](message *models.Message) (*T, error) {
	if got := digest([]byte(message.Content)); got != message.Hash {
		return nil, fmt.Errorf("message %s: content hash mismatch", message.ID)
	}

	entity := new(T)
	if err := json.Unmarshal([]byte(message.Content), entity); err != nil {
		return nil, err
	}

	return entity, nil
}

func digest(content []byte) string {
	sum := sha256.Sum256(content)
	return base64.StdEncoding.EncodeToString(sum[:])
}
