package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whiteelite/garage/internal/domain/repositories"
	"github.com/whiteelite/garage/internal/infrastructure/messaging/kafka/repositories/repository"
	"github.com/whiteelite/garage/internal/infrastructure/storage/sqlite"
	"github.com/whiteelite/garage/internal/notify"
	"github.com/whiteelite/garage/internal/platform/config"
	"github.com/whiteelite/garage/internal/platform/logger"
	"github.com/whiteelite/garage/internal/service/garage"
)

// app holds the dependencies shared by subcommands. Storage and Kafka are
// only opened by commands that need them.
type app struct {
	cfg    config.Config
	dbPath string
	log    *logger.Logger

	store   *sqlite.Store
	queue   repositories.MessageQueue
	service *garage.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "garage",
		Short:        "Vehicles whose level only goes up",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.dbPath == "" {
				a.dbPath = cfg.DBPath
			}
			a.log, err = logger.New(cfg.LogMode)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.log.Sync()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (default $GARAGE_DB_PATH)")

	rootCmd.AddCommand(
		newDemoCmd(a),
		newRegisterCmd(a),
		newUpgradeCmd(a),
		newSetLevelCmd(a),
		newStartCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newWatchCmd(a),
	)
	return rootCmd
}

// open builds the notifier chain, the store and the service. One-shot
// commands only publish, so their queue never joins the consumer group.
func (a *app) open() error {
	notifiers := notify.Multi{notify.NewLog(a.log)}
	if a.cfg.KafkaEnabled() {
		params, err := a.kafkaParams(true)
		if err != nil {
			return err
		}
		a.queue = repository.InitializeKafkaMessageQueue(params)
		notifiers = append(notifiers, notify.NewQueue(a.queue, a.log))
	}

	store, err := sqlite.Open(a.dbPath)
	if err != nil {
		return err
	}
	a.store = store
	a.service = garage.NewService(store, a.log, notifiers)
	return nil
}

func (a *app) kafkaParams(producerOnly bool) (repository.KafkaMessageQueueParams, error) {
	params := repository.KafkaMessageQueueParams{
		Brokers:      a.cfg.KafkaBrokers,
		Topic:        a.cfg.KafkaTopic,
		GroupID:      a.cfg.KafkaGroupID,
		ProducerOnly: producerOnly,
	}
	if err := repository.ValidateKafkaParams(params); err != nil {
		return params, err
	}
	a.log.Debug("kafka queue", "params", params.Get())
	return params, nil
}

// withService opens the store for the duration of one command.
func (a *app) withService(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(); err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args)
	}
}

func (a *app) close() {
	if a.queue != nil {
		a.queue.Close()
		a.queue = nil
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Error("close store", "error", err)
		}
		a.store = nil
	}
}
