package styling_test

import (
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bookingform/pkg/styling"
)

func TestCatalog_ResolveDefault(t *testing.T) {
	catalog := styling.NewCatalog()

	cfg, err := catalog.Resolve("", "", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != styling.DefaultTheme {
		t.Fatalf("unexpected theme %q", cfg.Theme)
	}
	if styling.RootClass(cfg) != "root" || styling.ErrorClass(cfg) != "error" {
		t.Fatalf("unexpected classes %q / %q", styling.RootClass(cfg), styling.ErrorClass(cfg))
	}
	if got := cfg.AssetURL(styling.AssetLiveScript); got != "/runtime/booking-live.js" {
		t.Fatalf("unexpected live script url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
	if cfg.CSSVars["--error-color"] != "#c0392b" {
		t.Fatalf("css vars not derived: %v", cfg.CSSVars)
	}
	if _, ok := cfg.CSSVars["--root"]; ok {
		t.Fatalf("class tokens must not become css vars")
	}
}

func TestCatalog_ResolveVariantAndOverrides(t *testing.T) {
	catalog := styling.NewCatalog()

	cfg, err := catalog.Resolve(styling.DefaultTheme, "dark", map[string]string{
		styling.TokenErrorClass: "form-error",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Tokens[styling.TokenErrorColor] != "#ff6b6b" {
		t.Fatalf("variant tokens not merged: %v", cfg.Tokens)
	}
	if styling.ErrorClass(cfg) != "form-error" {
		t.Fatalf("override not applied: %q", styling.ErrorClass(cfg))
	}

	if _, err := catalog.Resolve(styling.DefaultTheme, "sepia", nil); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if _, err := catalog.Resolve("acme", "", nil); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestCatalog_Register(t *testing.T) {
	catalog := styling.NewCatalog()
	err := catalog.Register(&theme.Manifest{
		Name:    "acme",
		Version: "0.1.0",
		Tokens:  map[string]string{styling.TokenRootClass: "acme-root"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := catalog.Register(styling.DefaultManifest()); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if diff := cmp.Diff([]string{"acme", "booking"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	cfg, err := catalog.Resolve("acme", "", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if styling.RootClass(cfg) != "acme-root" || styling.ErrorClass(cfg) != "error" {
		t.Fatalf("unexpected classes %q / %q", styling.RootClass(cfg), styling.ErrorClass(cfg))
	}
}

func TestCSSVarsStyle(t *testing.T) {
	cfg := &theme.RendererConfig{CSSVars: map[string]string{"--b": "2", "--a": "1"}}
	if got := styling.CSSVarsStyle(cfg); got != "--a: 1; --b: 2" {
		t.Fatalf("unexpected style %q", got)
	}
	if got := styling.CSSVarsStyle(nil); got != "" {
		t.Fatalf("expected empty style, got %q", got)
	}
}
