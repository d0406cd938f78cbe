// Package styling supplies the booking form's styling resource as go-theme
// manifests. Only two class names carry meaning for renderers ("root" for the
// container, "error" for validation messages); the remaining tokens are colour
// hints exposed as CSS variables and used by the terminal renderer.
package styling

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Token keys understood by the renderers.
const (
	TokenRootClass  = "root"
	TokenErrorClass = "error"
	TokenErrorColor = "error.color"
	TokenAccent     = "accent.color"
	TokenMuted      = "muted.color"
)

// Asset keys.
const (
	AssetLiveScript = "live.script"
	AssetStylesheet = "stylesheet"
)

// DefaultTheme names the built-in manifest.
const DefaultTheme = "booking"

// DefaultManifest returns the built-in theme with a "dark" variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenRootClass:  "root",
			TokenErrorClass: "error",
			TokenErrorColor: "#c0392b",
			TokenAccent:     "#2f6fde",
			TokenMuted:      "#6b7280",
		},
		Assets: theme.Assets{
			Prefix: "/runtime",
			Files: map[string]string{
				AssetLiveScript: "booking-live.js",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					TokenErrorColor: "#ff6b6b",
					TokenAccent:     "#8ab4f8",
					TokenMuted:      "#9aa0a6",
				},
			},
		},
	}
}

// Catalog holds registered manifests and resolves them into renderer
// configuration.
type Catalog struct {
	mu        sync.RWMutex
	registry  theme.Registry
	manifests map[string]*theme.Manifest
}

// NewCatalog returns a catalog seeded with DefaultManifest.
func NewCatalog() *Catalog {
	c := &Catalog{
		registry:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest),
	}
	if err := c.Register(DefaultManifest()); err != nil {
		panic(err)
	}
	return c
}

// Register adds a manifest. Names must be unique.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("styling: manifest name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.manifests[manifest.Name]; exists {
		return fmt.Errorf("styling: theme %q already registered", manifest.Name)
	}
	if err := c.registry.Register(manifest); err != nil {
		return fmt.Errorf("styling: register %q: %w", manifest.Name, err)
	}
	c.manifests[manifest.Name] = manifest
	return nil
}

// Names lists registered themes.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve merges a theme with its variant and applies overrides on top of the
// resulting tokens. An empty name selects DefaultTheme; an unknown variant is
// an error.
func (c *Catalog) Resolve(name, variant string, overrides map[string]string) (*theme.RendererConfig, error) {
	if name == "" {
		name = DefaultTheme
	}

	c.mu.RLock()
	manifest, ok := c.manifests[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("styling: theme %q not found", name)
	}

	tokens := copyStrings(manifest.Tokens)
	partials := copyStrings(manifest.Templates)
	prefix := manifest.Assets.Prefix
	files := copyStrings(manifest.Assets.Files)

	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("styling: theme %q has no variant %q", name, variant)
		}
		mergeStrings(tokens, v.Tokens)
		mergeStrings(partials, v.Templates)
		mergeStrings(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}
	mergeStrings(tokens, overrides)

	return &theme.RendererConfig{
		Theme:    name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars(tokens),
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}, nil
}

// RootClass returns the container class name.
func RootClass(cfg *theme.RendererConfig) string {
	return token(cfg, TokenRootClass, "root")
}

// ErrorClass returns the validation message class name.
func ErrorClass(cfg *theme.RendererConfig) string {
	return token(cfg, TokenErrorClass, "error")
}

// Token returns a token value or fallback.
func Token(cfg *theme.RendererConfig, key, fallback string) string {
	return token(cfg, key, fallback)
}

func token(cfg *theme.RendererConfig, key, fallback string) string {
	if cfg == nil {
		return fallback
	}
	if value := strings.TrimSpace(cfg.Tokens[key]); value != "" {
		return value
	}
	return fallback
}

// CSSVarsStyle renders CSS variables as a deterministic inline declaration.
func CSSVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+cfg.CSSVars[key])
	}
	return strings.Join(parts, "; ")
}

func cssVars(tokens map[string]string) map[string]string {
	out := make(map[string]string)
	for key, value := range tokens {
		if key == TokenRootClass || key == TokenErrorClass {
			continue
		}
		name := "--" + strings.NewReplacer(".", "-", " ", "-").Replace(key)
		out[name] = value
	}
	return out
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStrings(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
