package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	bookingform "github.com/goliatone/go-bookingform"
	"github.com/goliatone/go-bookingform/pkg/openapi"
)

func openapiCmd(root *rootOptions) *cobra.Command {
	var (
		format  string
		servers []string
	)

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the submission endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			var encoding openapi.Format
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", string(openapi.FormatJSON):
				encoding = openapi.FormatJSON
			case string(openapi.FormatYAML), "yml":
				encoding = openapi.FormatYAML
			default:
				return fmt.Errorf("unsupported format %q (want json or yaml)", format)
			}

			cfg, err := root.load()
			if err != nil {
				return err
			}
			booking, err := bookingform.FormFromConfig(cfg.Form, time.Now())
			if err != nil {
				return err
			}
			doc, err := openapi.Build(booking.Registry, booking.Schema, openapi.Options{
				Title:   cfg.Form.Title,
				Version: version,
				Servers: servers,
			})
			if err != nil {
				return err
			}
			raw, err := openapi.Marshal(doc, encoding)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(openapi.FormatJSON), "document encoding: json or yaml")
	cmd.Flags().StringSliceVar(&servers, "server", nil, "server URL to list in the document (repeatable)")
	return cmd
}
