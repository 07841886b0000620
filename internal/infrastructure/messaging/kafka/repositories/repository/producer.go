package repository

import (
	"context"
	"sync"

	json "github.com/goccy/go-json"

	sdk "github.com/segmentio/kafka-go"
	"github.com/whiteelite/garage/internal/domain/entities"
	mapper "github.com/whiteelite/garage/internal/infrastructure/messaging/kafka/repositories/mapper"
)

// StartProducer writes every event from bucket to Kafka until bucket is
// closed, keyed by vehicle identity so one vehicle's events keep their
// order within a partition.
func StartProducer(
	ctx context.Context,
	wg *sync.WaitGroup,
	writer *sdk.Writer,
	bucket <-chan *entities.LevelChanged,
	errors chan<- error,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case request, ok := <-bucket:
			if !ok {
				return
			}

			model, err := mapper.ToMessage(string(request.Identity), request)
			if err != nil {
				report(errors, err)
				continue
			}

			serialized, err := json.Marshal(model)
			if err != nil {
				report(errors, err)
				continue
			}
			err = writer.WriteMessages(ctx, sdk.Message{
				Key:   []byte(model.Key),
				Value: serialized,
			})
			if err != nil {
				report(errors, err)
				continue
			}
		}
	}
}

// report never blocks a worker; errors beyond the buffer are dropped.
func report(errors chan<- error, err error) {
	select {
	case errors <- err:
	default:
	}
}
