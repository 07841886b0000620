// Package catalog keeps priced vehicles in insertion order with unique
// identities.
package catalog

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/whiteelite/garage/internal/platform/errors"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

type Entry struct {
	Entity shared.Entity
	Price  decimal.Decimal
}

// Catalog is not safe for concurrent use.
type Catalog struct {
	order []shared.Identity
	index map[shared.Identity]Entry
}

func New() *Catalog {
	return &Catalog{index: make(map[shared.Identity]Entry)}
}

func (c *Catalog) Add(entity shared.Entity, price decimal.Decimal) error {
	id := entity.Identity()
	if price.IsNegative() {
		return errors.New(errors.CodeInvalidRecord, fmt.Sprintf("price of %s is negative", id))
	}
	if _, ok := c.index[id]; ok {
		return errors.New(errors.CodeDuplicate, fmt.Sprintf("%s already listed", id))
	}
	c.order = append(c.order, id)
	c.index[id] = Entry{Entity: entity, Price: price}
	return nil
}

func (c *Catalog) Get(id shared.Identity) (Entry, bool) {
	e, ok := c.index[id]
	return e, ok
}

func (c *Catalog) Remove(id shared.Identity) error {
	if _, ok := c.index[id]; !ok {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("%s not listed", id))
	}
	delete(c.index, id)
	c.order = slices.DeleteFunc(c.order, func(v shared.Identity) bool { return v == id })
	return nil
}

// List returns entries in the order they were added.
func (c *Catalog) List() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.index[id])
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.order)
}

func (c *Catalog) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.index {
		total = total.Add(e.Price)
	}
	return total
}
