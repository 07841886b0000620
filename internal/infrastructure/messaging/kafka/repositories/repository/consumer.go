package repository

import (
	"context"
	"sync"

	json "github.com/goccy/go-json"

	sdk "github.com/segmentio/kafka-go"
	"github.com/whiteelite/garage/internal/domain/entities"
	mapper "github.com/whiteelite/garage/internal/infrastructure/messaging/kafka/repositories/mapper"
	models "github.com/whiteelite/garage/internal/infrastructure/messaging/kafka/repositories/models"
)

// StartConsumer fetches events into bucket and commits each message only
// after it was handed over. Undecodable messages are reported and committed
// so they do not block the partition.
func StartConsumer(
	ctx context.Context,
	wg *sync.WaitGroup,
	reader *sdk.Reader,
	bucket chan<- entities.LevelChanged,
	errors chan<- error,
) {
	defer wg.Done()

	for {
		data, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			report(errors, err)
			continue
		}

		model := new(models.Message)
		if err := json.Unmarshal(data.Value, model); err != nil {
			report(errors, err)
			commit(ctx, reader, data, errors)
			continue
		}

		event, err := mapper.FromMessage[entities.LevelChanged](model)
		if err != nil {
			report(errors, err)
			commit(ctx, reader, data, errors)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case bucket <- *event:
		}
		commit(ctx, reader, data, errors)
	}
}

func commit(ctx context.Context, reader *sdk.Reader, data sdk.Message, errors chan<- error) {
	if err := reader.CommitMessages(ctx, data); err != nil && ctx.Err() == nil {
		report(errors, err)
	}
}
