package timeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrExists is returned by Export when the target already exists and
// overwriting was not requested.
var ErrExists = errors.New("timeline: export target exists")

// Sink is a destination for exported timelines. Paths are forward-slash
// separated and relative to the sink root.
type Sink interface {
	// Write opens path for writing, truncating it. Closing the writer
	// completes the write.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Exists reports whether path exists.
	Exists(ctx context.Context, path string) (bool, error)

	// Location returns a human-readable form of path within the sink.
	Location(path string) string
}

// Exporter writes timelines as indented JSON.
type Exporter struct {
	sink      Sink
	overwrite bool
}

// ExportOption configures an Exporter.
type ExportOption func(*Exporter)

// WithOverwrite allows Export to replace existing files.
func WithOverwrite() ExportOption {
	return func(e *Exporter) {
		e.overwrite = true
	}
}

// NewExporter creates an Exporter writing to sink.
func NewExporter(sink Sink, opts ...ExportOption) *Exporter {
	e := &Exporter{sink: sink}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes tl to "<name>.json" and returns its location.
func (e *Exporter) Export(ctx context.Context, tl *Timeline) (string, error) {
	if err := validName(tl.Name); err != nil {
		return "", err
	}
	path := tl.Name + ".json"
	if !e.overwrite {
		exists, err := e.sink.Exists(ctx, path)
		if err != nil {
			return "", fmt.Errorf("timeline: export %s: %w", tl.Name, err)
		}
		if exists {
			return "", fmt.Errorf("%w: %s", ErrExists, e.sink.Location(path))
		}
	}

	data, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return "", fmt.Errorf("timeline: export %s: %w", tl.Name, err)
	}
	w, err := e.sink.Write(ctx, path)
	if err != nil {
		return "", fmt.Errorf("timeline: export %s: %w", tl.Name, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		w.Close()
		return "", fmt.Errorf("timeline: export %s: %w", tl.Name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("timeline: export %s: %w", tl.Name, err)
	}
	return e.sink.Location(path), nil
}

// LocalSink writes into a directory on the local filesystem.
type LocalSink struct {
	root string
}

// NewLocalSink creates a LocalSink rooted at dir, creating it if needed.
func NewLocalSink(dir string) (*LocalSink, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalSink{root: abs}, nil
}

func (l *LocalSink) resolve(path string) string {
	return filepath.Join(l.root, filepath.FromSlash(path))
}

func (l *LocalSink) Write(_ context.Context, path string) (io.WriteCloser, error) {
	full := l.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	return os.Create(full)
}

func (l *LocalSink) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(l.resolve(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (l *LocalSink) Location(path string) string {
	return l.resolve(path)
}

var _ Sink = (*LocalSink)(nil)

// ParseS3URL splits "s3://bucket/prefix" into bucket and prefix. The
// prefix has no leading or trailing slash.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("timeline: not an s3 url: %q", raw)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("timeline: no bucket in %q", raw)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}
