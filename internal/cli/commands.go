package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/musikspil/internal/factory"
	"github.com/mcoot/musikspil/internal/model"
)

// newApp wires a client for a one-shot command. Nothing runs in the background.
func newApp(cmd *cobra.Command, output string) (*factory.App, error) {
	fc := cfg.FactoryConfig()
	fc.Logger = logger
	fc.Output = cmd.OutOrStdout()
	fc.OutputFormat = output
	fc.DisplayAddr = ""
	return factory.New(cmd.Context(), fc)
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List song categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, factory.OutputNone)
			if err != nil {
				return err
			}
			defer func() { _ = app.Teardown(context.Background()) }()

			categories := app.Dispatcher.LoadCategories(cmd.Context())
			if len(categories) == 0 {
				return fmt.Errorf("could not load categories from %s", cfg.ServerURL)
			}
			NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr()).Print(CategoriesResult{Categories: categories})
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, factory.OutputNone)
			if err != nil {
				return err
			}
			defer func() { _ = app.Teardown(context.Background()) }()

			version := app.Dispatcher.LoadVersion(cmd.Context())
			NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr()).Print(VersionResult{Version: version})
			return nil
		},
	}
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <room>",
		Short: "Render a room once, as a spectator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, cfg.Output)
			if err != nil {
				return err
			}
			defer func() { _ = app.Teardown(context.Background()) }()

			app.Dispatcher.LoadPreferences(cmd.Context())
			app.Session.SetSession(model.RoomCode(strings.ToUpper(strings.TrimSpace(args[0]))), nil)
			if !app.Poller.PollNow(cmd.Context()) {
				return fmt.Errorf("could not fetch room %s", args[0])
			}
			app.Controller.Stop()
			return nil
		},
	}
}

func newDeviceIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device-id",
		Short: "Print this device's identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, factory.OutputNone)
			if err != nil {
				return err
			}
			defer func() { _ = app.Teardown(context.Background()) }()

			NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr()).Print(DeviceResult{DeviceID: app.Client.DeviceID()})
			return nil
		},
	}
}
