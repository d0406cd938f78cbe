package testsupport

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/validation"
)

// Now is the instant fixtures pin "today" to.
var Now = time.Date(2026, time.October, 19, 14, 30, 0, 0, time.UTC)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// BookingForm returns the registry built at Now in UTC.
func BookingForm() model.FormModel {
	return model.NewBookingForm(
		model.WithNow(Now),
		model.WithLocation(time.UTC),
		model.WithLocale(language.AmericanEnglish),
	)
}

// Schema returns the booking schema built at Now in UTC.
func Schema() *validation.Schema {
	return validation.NewSchema(validation.WithNow(Now), validation.WithLocation(time.UTC))
}

// DefaultValues returns the mount values at Now.
func DefaultValues() model.Values {
	return model.DefaultValues(Now, time.UTC)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// Record is a captured log entry with its attributes flattened to strings.
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// Recorder is a slog.Handler that keeps every record in memory. Handlers
// derived through WithAttrs share the same store.
type Recorder struct {
	store *recordStore
	attrs []slog.Attr
}

type recordStore struct {
	mu      sync.Mutex
	records []Record
}

// NewRecordingLogger returns a logger writing to a fresh Recorder.
func NewRecordingLogger() (*slog.Logger, *Recorder) {
	rec := &Recorder{store: &recordStore{}}
	return slog.New(rec), rec
}

func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *Recorder) Handle(_ context.Context, record slog.Record) error {
	entry := Record{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   make(map[string]string),
	}
	for _, attr := range r.attrs {
		entry.Attrs[attr.Key] = attr.Value.String()
	}
	record.Attrs(func(attr slog.Attr) bool {
		entry.Attrs[attr.Key] = attr.Value.String()
		return true
	})

	r.store.mu.Lock()
	r.store.records = append(r.store.records, entry)
	r.store.mu.Unlock()
	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Recorder{
		store: r.store,
		attrs: append(append([]slog.Attr(nil), r.attrs...), attrs...),
	}
}

func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Records returns the captured entries.
func (r *Recorder) Records() []Record {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]Record(nil), r.store.records...)
}

// Messages returns the captured messages in order.
func (r *Recorder) Messages() []string {
	records := r.Records()
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.Message)
	}
	return out
}

// MustParseHTML parses markup, failing the test on malformed input.
func MustParseHTML(t *testing.T, markup []byte) *html.Node {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// FindAll returns every element node for which match reports true.
func FindAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return out
}

// FindByID returns the element with the given id attribute.
func FindByID(root *html.Node, id string) *html.Node {
	found := FindAll(root, func(n *html.Node) bool { return Attr(n, "id") == id })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// ByTag matches elements by tag name.
func ByTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

// ByClass matches elements carrying class in their class list.
func ByClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, name := range strings.Fields(Attr(n, "class")) {
			if name == class {
				return true
			}
		}
		return false
	}
}

// Attr returns an attribute value or the empty string.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// Text returns the concatenated, trimmed text content of n.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
