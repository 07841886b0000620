package entities

import (
	"fmt"

	"github.com/whiteelite/garage/internal/platform/errors"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

// Record is the serializable snapshot of a vehicle or car.
type Record struct {
	Kind      Kind      `json:"kind"`
	Identity  Identity  `json:"identity"`
	Level     Level     `json:"level"`
	DoorCount DoorCount `json:"door_count,omitempty"`
}

func Snapshot(e shared.Entity) Record {
	rec := Record{
		Kind:     KindOf(e),
		Identity: e.Identity(),
		Level:    e.Level(),
	}
	if car, ok := e.(*Car); ok {
		rec.DoorCount = car.DoorCount()
	}
	return rec
}

// Restore rebuilds an entity from a record. The stored level is taken as
// is, without emitting a LevelChanged event.
func Restore(rec Record, opts ...Option) (shared.Entity, error) {
	if err := ValidateIdentity(rec.Identity); err != nil {
		return nil, err
	}
	if rec.Level < shared.MinLevel {
		return nil, errors.New(errors.CodeInvalidRecord, fmt.Sprintf("level %d is below %d", rec.Level, shared.MinLevel))
	}

	base := restoreVehicle(rec.Identity, rec.Level, opts...)
	switch rec.Kind {
	case KindVehicle:
		if rec.DoorCount != 0 {
			return nil, errors.New(errors.CodeInvalidRecord, "plain vehicle cannot carry doors")
		}
		return base, nil
	case KindCar:
		car, err := ExtendCar(base, rec.DoorCount)
		if err != nil {
			return nil, err
		}
		return car, nil
	default:
		return nil, errors.New(errors.CodeInvalidRecord, fmt.Sprintf("unknown kind %q", rec.Kind))
	}
}
