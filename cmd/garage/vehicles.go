package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/whiteelite/garage/internal/codec"
	"github.com/whiteelite/garage/internal/domain/entities"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

func newRegisterCmd(a *app) *cobra.Command {
	var doors uint8
	cmd := &cobra.Command{
		Use:   "register [identity]",
		Short: "Register a vehicle, or a car when --doors is set",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, args []string) error {
			var id shared.Identity
			if len(args) == 1 {
				id = shared.Identity(args[0])
			}
			entity, err := a.service.Register(cmd.Context(), id, entities.DoorCount(doors))
			if err != nil {
				return err
			}
			return printRecord(cmd, entity)
		}),
	}
	cmd.Flags().Uint8Var(&doors, "doors", 0, "door count; registers a car when greater than zero")
	return cmd
}

func newUpgradeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <identity>",
		Short: "Raise a vehicle's level by one",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, args []string) error {
			entity, err := a.service.Upgrade(cmd.Context(), shared.Identity(args[0]))
			if err != nil {
				return err
			}
			return printRecord(cmd, entity)
		}),
	}
}

func newSetLevelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-level <identity> <level>",
		Short: "Set a vehicle's level; only higher values are accepted",
		Args:  cobra.ExactArgs(2),
		RunE: a.withService(func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("level must be an integer: %w", err)
			}
			entity, err := a.service.SetLevel(cmd.Context(), shared.Identity(args[0]), shared.Level(level))
			if err != nil {
				return err
			}
			return printRecord(cmd, entity)
		}),
	}
}

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start <identity>",
		Short: "Start a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, args []string) error {
			msg, err := a.service.Start(cmd.Context(), shared.Identity(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		}),
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <identity>",
		Short: "Print a vehicle as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, args []string) error {
			entity, err := a.service.Get(cmd.Context(), shared.Identity(args[0]))
			if err != nil {
				return err
			}
			out, err := codec.EncodeIndent(entities.Snapshot(entity))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}),
	}
}

func newListCmd(a *app) *cobra.Command {
	var limit, offset int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vehicles in registration order",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, args []string) error {
			list, err := a.service.List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			for _, entity := range list {
				if err := printRecord(cmd, entity); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().Int64Var(&limit, "limit", 50, "page size")
	cmd.Flags().Int64Var(&offset, "offset", 0, "records to skip")
	return cmd
}

func printRecord(cmd *cobra.Command, entity shared.Entity) error {
	out, err := codec.Encode(entities.Snapshot(entity))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
