package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	bookingform "github.com/goliatone/go-bookingform"
	"github.com/goliatone/go-bookingform/pkg/render"
	"github.com/goliatone/go-bookingform/pkg/renderers/tui"
	"github.com/goliatone/go-bookingform/pkg/renderers/vanilla"
	"github.com/goliatone/go-bookingform/pkg/styling"
)

func renderCmd(root *rootOptions) *cobra.Command {
	var (
		rendererName string
		output       string
		fragment     bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the freshly mounted form once",
		Long: `Render the form as it appears on first load, without a server. Useful
for previewing themes and templates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
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

			renderers, err := newRenderers(cfg.Form.Title, booking.Registry.Metadata["locale"])
			if err != nil {
				return err
			}
			renderer, err := renderers.Get(strings.TrimSpace(rendererName))
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(renderers.List(), ", "))
			}

			out, err := renderer.Render(cmd.Context(), booking.View(booking.Mount()), render.RenderOptions{
				Theme:    resolved,
				Header:   cfg.Form.Header,
				Fragment: fragment,
			})
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rendererName, "renderer", "r", "vanilla", "renderer to use")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "render the form element only")
	return cmd
}

func newRenderers(title, lang string) (*render.Registry, error) {
	html, err := vanilla.New(vanilla.WithDefaultStyles(), vanilla.WithTitle(title), vanilla.WithLang(lang))
	if err != nil {
		return nil, err
	}
	text, err := tui.New()
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	for _, renderer := range []render.Renderer{html, text} {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
