package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/musikspil/internal/factory"
)

func newPlayCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively",
		Long: `Starts the client: the screen is repainted from the server once a second
and commands are read one per line from standard input. Type "help" for the
command list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc := cfg.FactoryConfig()
			fc.Logger = logger
			fc.Output = cmd.OutOrStdout()

			app, err := factory.New(cmd.Context(), fc)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Teardown(context.Background()); err != nil {
					logger.Warn("teardown failed", slog.String("error", err.Error()))
				}
			}()

			if err := app.Init(cmd.Context()); err != nil {
				return err
			}
			if addr := app.DisplayAddr(); addr != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Display mirror on http://%s/\n", addr)
			}

			runner := NewRunner(app.Dispatcher, cmd.OutOrStdout(), name)
			return runLoop(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr(), runner)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name used by create and join")

	return cmd
}

// runLoop reads lines until quit, end of input or ctx cancellation
func runLoop(ctx context.Context, in io.Reader, errW io.Writer, runner *Runner) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case text, ok := <-lines:
			if !ok {
				return nil
			}
			line, ok := ParseLine(text)
			if !ok {
				continue
			}
			err := runner.Exec(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			var usageErr *UsageError
			if errors.As(err, &usageErr) {
				_, _ = fmt.Fprintln(errW, usageErr.Error())
			} else if err != nil {
				logger.Debug("command failed", slog.String("command", line.Verb), slog.String("error", err.Error()))
			}
		}
	}
}
