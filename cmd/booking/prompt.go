package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	bookingform "github.com/goliatone/go-bookingform"
	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/logging"
	"github.com/goliatone/go-bookingform/pkg/renderers/tui"
	"github.com/goliatone/go-bookingform/pkg/styling"
)

func promptCmd(root *rootOptions) *cobra.Command {
	var (
		format    string
		noConfirm bool
		attempts  int
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Collect a booking interactively in the terminal",
		Long: `Prompt for each booking field in order, re-asking while a value is
invalid, then print the accepted booking to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := tui.ParseOutputFormat(format)
			if err != nil {
				return err
			}
			cfg, err := root.load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}

			booking, err := bookingform.FormFromConfig(cfg.Form, time.Now())
			if err != nil {
				return err
			}
			resolved, err := styling.NewCatalog().Resolve(cfg.Theme.Name, cfg.Theme.Variant, cfg.Theme.Tokens)
			if err != nil {
				return err
			}

			renderer, err := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithOutputFormat(outputFormat),
				tui.WithTheme(tui.DefaultTheme(resolved)),
				tui.WithConfirm(!noConfirm),
				tui.WithMaxAttempts(attempts),
			)
			if err != nil {
				return err
			}

			controller := booking.Mount(form.WithLogger(logging.Component(logger, "prompt")))
			out, err := renderer.Run(cmd.Context(), controller)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	cmd.Flags().BoolVar(&noConfirm, "yes", false, "submit without a confirmation prompt")
	cmd.Flags().IntVar(&attempts, "max-attempts", tui.DefaultMaxAttempts, "re-prompts allowed per field")
	return cmd
}
