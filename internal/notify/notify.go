// Package notify delivers LevelChanged events to the logger and to a
// message queue.
package notify

import (
	"github.com/whiteelite/garage/internal/domain/entities"
	domainrepos "github.com/whiteelite/garage/internal/domain/repositories"
	"github.com/whiteelite/garage/internal/platform/logger"
)

// Log writes each event at info level.
type Log struct {
	log *logger.Logger
}

func NewLog(log *logger.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(e entities.LevelChanged) {
	l.log.Info("level changed",
		"event_id", e.ID.String(),
		"identity", string(e.Identity),
		"previous", int(e.Previous),
		"current", int(e.Current),
	)
}

// Queue publishes events to a message queue. When the producer buffer is
// full the event is dropped and logged instead of blocking the mutation.
type Queue struct {
	producer domainrepos.MessageQueueProducer
	log      *logger.Logger
}

func NewQueue(producer domainrepos.MessageQueueProducer, log *logger.Logger) *Queue {
	return &Queue{producer: producer, log: log}
}

func (q *Queue) Notify(e entities.LevelChanged) {
	select {
	case q.producer.ToProduceBuffered() <- e:
	default:
		q.log.Warn("level change dropped, producer buffer full",
			"event_id", e.ID.String(),
			"identity", string(e.Identity),
		)
	}
}

// Multi fans out to every non-nil notifier in order.
type Multi []entities.Notifier

func (m Multi) Notify(e entities.LevelChanged) {
	for _, n := range m {
		if n != nil {
			n.Notify(e)
		}
	}
}

var (
	_ entities.Notifier = (*Log)(nil)
	_ entities.Notifier = (*Queue)(nil)
	_ entities.Notifier = Multi(nil)
)
