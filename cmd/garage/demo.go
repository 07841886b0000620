package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/whiteelite/garage/internal/codec"
	"github.com/whiteelite/garage/internal/domain/catalog"
	"github.com/whiteelite/garage/internal/domain/entities"
	"github.com/whiteelite/garage/internal/notify"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through the level rules in memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), entities.WithNotifier(notify.NewLog(a.log)))
		},
	}
}

func runDemo(w io.Writer, opts ...entities.Option) error {
	fmt.Fprintln(w, "== vehicle")
	p1 := entities.NewVehicle("P1", opts...)
	fmt.Fprintf(w, "created %s at level %d\n", p1.Identity(), p1.Level())
	trySet(w, p1, 2)
	trySet(w, p1, 2)
	p1.Increment()
	fmt.Fprintf(w, "increment: level %d\n", p1.Level())
	fmt.Fprintln(w, p1.Activate())

	fmt.Fprintln(w, "== car")
	c1 := entities.NewCar("C1", 4, opts...)
	fmt.Fprintf(w, "created %s at level %d with %d doors\n", c1.Identity(), c1.Level(), c1.DoorCount())
	trySet(w, c1, 5)
	fmt.Fprintln(w, c1.Activate())
	fmt.Fprintln(w, c1.Vehicle.Activate())

	fmt.Fprintln(w, "== catalog")
	cat := catalog.New()
	if err := cat.Add(p1, decimal.RequireFromString("8500.00")); err != nil {
		return err
	}
	if err := cat.Add(c1, decimal.RequireFromString("21999.90")); err != nil {
		return err
	}
	if err := cat.Add(entities.NewVehicle("P1"), decimal.NewFromInt(1)); err != nil {
		fmt.Fprintf(w, "add P1 again: %v\n", err)
	}
	for _, e := range cat.List() {
		fmt.Fprintf(w, "%s level %d price %s\n", e.Entity.Identity(), e.Entity.Level(), e.Price.StringFixed(2))
	}
	fmt.Fprintf(w, "total value %s\n", cat.TotalValue().StringFixed(2))

	fmt.Fprintln(w, "== json")
	encoded, err := codec.Encode(entities.Snapshot(c1))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "encoded %s\n", encoded)
	rec, err := codec.Decode[entities.Record](encoded)
	if err != nil {
		return err
	}
	restored, err := entities.Restore(*rec)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "decoded %s at level %d\n", restored.Identity(), restored.Level())
	return nil
}

func trySet(w io.Writer, e shared.Entity, level shared.Level) {
	if err := e.TrySet(level); err != nil {
		fmt.Fprintf(w, "set %d: rejected (%v), level %d\n", level, err, e.Level())
		return
	}
	fmt.Fprintf(w, "set %d: committed, level %d\n", level, e.Level())
}
