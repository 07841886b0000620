package notify

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/whiteelite/garage/internal/domain/entities"
	"github.com/whiteelite/garage/internal/platform/logger"
)

type fakeProducer struct {
	ch chan entities.LevelChanged
}

func (f *fakeProducer) ToProduceBuffered() chan<- entities.LevelChanged { return f.ch }
func (f *fakeProducer) Close()                                           {}

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestLog(t *testing.T) {
	log, logs := observed()
	v := entities.NewVehicle("P1", entities.WithNotifier(NewLog(log)))

	v.Increment()

	entries := logs.FilterMessage("level changed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["identity"] != "P1" || fields["current"] != int64(2) || fields["previous"] != int64(1) {
		t.Fatalf("fields = %v", fields)
	}
}

func TestQueue(t *testing.T) {
	producer := &fakeProducer{ch: make(chan entities.LevelChanged, 1)}
	log, logs := observed()
	v := entities.NewVehicle("P1", entities.WithNotifier(NewQueue(producer, log)))

	v.Increment()
	if err := v.TrySet(5); err != nil {
		t.Fatalf("TrySet: %v", err)
	}

	got := <-producer.ch
	if got.Current != 2 {
		t.Fatalf("queued event = %+v", got)
	}
	if n := logs.FilterMessage("level change dropped, producer buffer full").Len(); n != 1 {
		t.Fatalf("expected one dropped event, got %d", n)
	}
	if v.Level() != 5 {
		t.Fatalf("a full queue must not block or undo the mutation, level = %d", v.Level())
	}
}

func TestMulti(t *testing.T) {
	var a, b int
	m := Multi{
		entities.NotifierFunc(func(entities.LevelChanged) { a++ }),
		nil,
		entities.NotifierFunc(func(entities.LevelChanged) { b++ }),
	}

	m.Notify(entities.LevelChanged{Identity: "P1"})

	if a != 1 || b != 1 {
		t.Fatalf("a=%d b=%d", a, b)
	}
}
