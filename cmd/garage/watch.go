package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/whiteelite/garage/internal/codec"
	"github.com/whiteelite/garage/internal/domain/entities"
	"github.com/whiteelite/garage/internal/infrastructure/messaging/kafka/repositories/repository"
	"github.com/whiteelite/garage/internal/platform/logger"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print level changes from Kafka as JSON lines until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.kafkaParams(false)
			if err != nil {
				return err
			}
			queue := repository.NewKafkaMessageQueue(params)
			defer queue.Close()

			return watchEvents(cmd.Context(), cmd.OutOrStdout(), queue.ToConsumeBuffered(), queue.Errors(), a.log)
		},
	}
}

// watchEvents prints each event until ctx ends or events is closed.
// Queue errors are logged and do not stop the watch.
func watchEvents(ctx context.Context, w io.Writer, events <-chan entities.LevelChanged, errs <-chan error, log *logger.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			log.Warn("kafka consumer", "error", err)
		case e, ok := <-events:
			if !ok {
				return nil
			}
			line, err := codec.Encode(e)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, line)
		}
	}
}
