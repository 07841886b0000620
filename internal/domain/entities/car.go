package entities

import (
	"fmt"

	"github.com/whiteelite/garage/internal/platform/errors"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

// Car extends a Vehicle with a door count and its own Activate.
// The level contract is the embedded Vehicle's, unchanged.
type Car struct {
	*Vehicle

	doors DoorCount
}

// ExtendCar is the second phase of building a car: the base vehicle must
// already exist. Its fields are shared, never reassigned.
func ExtendCar(base *Vehicle, doors DoorCount) (*Car, error) {
	if base == nil {
		return nil, errors.New(errors.CodeConstructionOrder, "car requires a constructed base vehicle")
	}
	return extend(base, doors), nil
}

func NewCar(identity Identity, doors DoorCount, opts ...Option) *Car {
	return extend(NewVehicle(identity, opts...), doors)
}

// extend is the only place a Car is assembled; base is never nil here.
func extend(base *Vehicle, doors DoorCount) *Car {
	return &Car{Vehicle: base, doors: doors}
}

func (c *Car) DoorCount() DoorCount {
	return c.doors
}

func (c *Car) Activate() string {
	return fmt.Sprintf("car %s started with %d doors", c.Identity(), c.doors)
}

var _ shared.Entity = (*Car)(nil)
