// Command booking serves the booking form over HTTP, collects a booking in the
// terminal, or prints the submission OpenAPI document.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bookingform/pkg/config"
	"github.com/goliatone/go-bookingform/pkg/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath  string
	environment map[string]string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "booking",
		Short:         "Booking form server and terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file (env BOOKING_* overrides)")

	root.AddCommand(
		serveCmd(opts),
		promptCmd(opts),
		renderCmd(opts),
		openapiCmd(opts),
		versionCmd(),
	)
	return root
}

func (o *rootOptions) load() (config.Config, error) {
	var options []config.Option
	if o.environment != nil {
		options = append(options, config.WithEnvironment(o.environment))
	}
	return config.Load(o.configPath, options...)
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(cfg.Log, w)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}
