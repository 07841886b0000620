package entities

import (
	"sync"
	"time"

	"github.com/google/uuid"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

type (
	Identity  = shared.Identity
	Level     = shared.Level
	DoorCount uint8
)

type Kind string

const (
	KindVehicle Kind = "vehicle"
	KindCar     Kind = "car"
)

// KindOf reports the variant of e.
func KindOf(e shared.Entity) Kind {
	if _, ok := e.(*Car); ok {
		return KindCar
	}
	return KindVehicle
}

// LevelChanged is emitted after every committed level mutation.
type LevelChanged struct {
	ID       uuid.UUID `json:"id"`
	Identity Identity  `json:"identity"`
	Previous Level     `json:"previous"`
	Current  Level     `json:"current"`
	At       time.Time `json:"at"`
}

type Notifier interface {
	Notify(LevelChanged)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(LevelChanged)

func (f NotifierFunc) Notify(e LevelChanged) { f(e) }

// Outbox holds events until the change they describe is committed.
type Outbox struct {
	mu     sync.Mutex
	events []LevelChanged
}

func (o *Outbox) Notify(e LevelChanged) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

// Flush hands the held events to n in order and empties the outbox.
// A nil n drops them.
func (o *Outbox) Flush(n Notifier) {
	o.mu.Lock()
	events := o.events
	o.events = nil
	o.mu.Unlock()

	if n == nil {
		return
	}
	for _, e := range events {
		n.Notify(e)
	}
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}
