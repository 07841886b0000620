package entities

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/whiteelite/garage/internal/platform/errors"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

// ReasonNotGreater is the rejection reason returned by TrySet.
const ReasonNotGreater = "value not greater than current"

type Option func(*Vehicle)

// WithNotifier sets the receiver of LevelChanged events.
func WithNotifier(n Notifier) Option {
	return func(v *Vehicle) { v.notifier = n }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(v *Vehicle) { v.now = now }
}

// Vehicle is the base entity. Its level is private and only moves up.
// Mutations are serialized per vehicle.
type Vehicle struct {
	identity Identity

	mu    sync.Mutex
	level Level

	notifier Notifier
	now      func() time.Time
}

func NewVehicle(identity Identity, opts ...Option) *Vehicle {
	return restoreVehicle(identity, shared.MinLevel, opts...)
}

func restoreVehicle(identity Identity, level Level, opts ...Option) *Vehicle {
	v := &Vehicle{
		identity: identity,
		level:    level,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Vehicle) Identity() Identity {
	return v.identity
}

func (v *Vehicle) Level() Level {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.level
}

// Increment raises the level by exactly one. It cannot fail.
func (v *Vehicle) Increment() {
	v.mu.Lock()
	prev := v.level
	v.level++
	next := v.level
	v.mu.Unlock()

	v.notify(prev, next)
}

// TrySet commits level only if it is strictly greater than the current one.
// On rejection the vehicle is unchanged and the error matches
// errors.ErrValidationRejected.
func (v *Vehicle) TrySet(level Level) error {
	v.mu.Lock()
	prev := v.level
	if level <= prev {
		v.mu.Unlock()
		return errors.WithMetadata(errors.CodeValidationRejected, ReasonNotGreater, map[string]string{
			"identity": string(v.identity),
			"current":  strconv.Itoa(int(prev)),
			"proposed": strconv.Itoa(int(level)),
		})
	}
	v.level = level
	v.mu.Unlock()

	v.notify(prev, level)
	return nil
}

func (v *Vehicle) Activate() string {
	return fmt.Sprintf("vehicle %s started", v.identity)
}

func (v *Vehicle) notify(prev, next Level) {
	if v.notifier == nil {
		return
	}
	v.notifier.Notify(LevelChanged{
		ID:       uuid.New(),
		Identity: v.identity,
		Previous: prev,
		Current:  next,
		At:       v.now().UTC(),
	})
}

var _ shared.Entity = (*Vehicle)(nil)
