package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-bookingform/pkg/openapi"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestOpenAPICmd_JSON(t *testing.T) {
	opts := &rootOptions{environment: map[string]string{}}
	out, err := execute(t, openapiCmd(opts), "--server", "https://booking.example")
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	doc, err := openapi.Load(context.Background(), []byte(out))
	if err != nil {
		t.Fatalf("document should load: %v", err)
	}
	if doc.Info.Title != "Booking" {
		t.Fatalf("unexpected title %q", doc.Info.Title)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "https://booking.example" {
		t.Fatalf("unexpected servers %v", doc.Servers)
	}
}

func TestOpenAPICmd_YAMLUsesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.yaml")
	if err := os.WriteFile(path, []byte("form:\n  title: Tours\n  timezone: UTC\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	opts := &rootOptions{configPath: path, environment: map[string]string{}}

	out, err := execute(t, openapiCmd(opts), "--format", "yaml")
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	var doc struct {
		Info struct {
			Title string `yaml:"title"`
		} `yaml:"info"`
	}
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output should be yaml: %v", err)
	}
	if doc.Info.Title != "Tours" {
		t.Fatalf("expected configured title, got %q", doc.Info.Title)
	}
}

func TestOpenAPICmd_RejectsUnknownFormat(t *testing.T) {
	opts := &rootOptions{environment: map[string]string{}}
	if _, err := execute(t, openapiCmd(opts), "--format", "toml"); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, versionCmd(), "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestRootCmd_Commands(t *testing.T) {
	var names []string
	for _, cmd := range newRootCmd().Commands() {
		names = append(names, cmd.Name())
	}
	want := "openapi prompt render serve version"
	if got := strings.Join(names, " "); got != want {
		t.Fatalf("commands: want %q, got %q", want, got)
	}
}

func TestPromptCmd_RejectsUnknownFormat(t *testing.T) {
	opts := &rootOptions{environment: map[string]string{}}
	if _, err := execute(t, promptCmd(opts), "--format", "xml"); err == nil {
		t.Fatalf("expected unknown output format to fail")
	}
}

func TestRenderCmd(t *testing.T) {
	opts := &rootOptions{environment: map[string]string{}}

	out, err := execute(t, renderCmd(opts), "--fragment")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "<div") || strings.Contains(out, "<html") {
		t.Fatalf("expected form fragment, got %q", out)
	}

	out, err = execute(t, renderCmd(opts), "--renderer", "tui")
	if err != nil {
		t.Fatalf("render tui: %v", err)
	}
	if !strings.Contains(out, "First name") {
		t.Fatalf("expected field labels in transcript, got %q", out)
	}

	if _, err := execute(t, renderCmd(opts), "--renderer", "pdf"); err == nil || !strings.Contains(err.Error(), "tui, vanilla") {
		t.Fatalf("expected unknown renderer to list alternatives, got %v", err)
	}
}
