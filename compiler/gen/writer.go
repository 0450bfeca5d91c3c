package gen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// ProjectWriter writes the scaffold files of a new project in parallel.
// Go files are formatted with goimports before they are written.
type ProjectWriter struct {
	project *Project
	dir     string
	force   bool
	workers int

	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks what a ProjectWriter produced.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewProjectWriter creates a writer for p rooted at dir.
func NewProjectWriter(p *Project, dir string) *ProjectWriter {
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	return &ProjectWriter{
		project: p,
		dir:     dir,
		workers: workers,
		metrics: &WriterMetrics{},
	}
}

// WithForce allows existing files to be overwritten.
func (w *ProjectWriter) WithForce(force bool) *ProjectWriter {
	w.force = force
	return w
}

// Metrics returns the generation metrics.
func (w *ProjectWriter) Metrics() *WriterMetrics {
	return w.metrics
}

// fileTask represents a single file generation task.
type fileTask struct {
	name   string // output file path, relative to the project dir
	render func(*Project) ([]byte, error)
}

// ProjectFiles lists the files written by a ProjectWriter, in order.
func ProjectFiles() []string {
	names := make([]string, len(projectFiles))
	for i, f := range projectFiles {
		names[i] = f.name
	}
	return names
}

var projectFiles = []fileTask{
	{name: "docker-compose.yml", render: func(p *Project) ([]byte, error) { return NewCompose(p).Render() }},
	{name: "go.mod", render: func(p *Project) ([]byte, error) { return execute(gomodTmpl, p) }},
	{name: "Dockerfile", render: func(p *Project) ([]byte, error) { return execute(dockerfileTmpl, p) }},
	{name: "main.go", render: func(p *Project) ([]byte, error) { return execute(mainTmpl, p) }},
}

// Write generates every project file. Without WithForce it fails before
// writing anything if one of the files already exists.
func (w *ProjectWriter) Write(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}
	if !w.force {
		var existing []string
		for _, f := range projectFiles {
			if _, err := os.Stat(filepath.Join(w.dir, f.name)); err == nil {
				existing = append(existing, f.name)
			}
		}
		if len(existing) > 0 {
			return &GenerationError{
				Phase:   "project",
				File:    strings.Join(existing, ", "),
				Message: "refusing to overwrite existing files",
				Cause:   fs.ErrExist,
			}
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range projectFiles {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.generateFile(f)
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	w.project.logger().Debug("project written",
		"dir", w.dir,
		"files", w.metrics.FilesGenerated,
		"bytes", w.metrics.TotalBytes,
	)
	return nil
}

// generateFile renders, formats and writes a single file.
func (w *ProjectWriter) generateFile(f fileTask) error {
	out, err := f.render(w.project)
	if err != nil {
		return &GenerationError{Phase: "project", File: f.name, Message: "render", Cause: err}
	}

	fullPath := filepath.Join(w.dir, f.name)
	if strings.HasSuffix(f.name, ".go") {
		formatted, err := imports.Process(fullPath, out, nil)
		if err != nil {
			// Keep the unformatted output next to the target for debugging.
			debugPath := fullPath + ".error"
			_ = os.WriteFile(debugPath, out, 0o644)
			return &GenerationError{
				Phase:   "project",
				File:    f.name,
				Message: fmt.Sprintf("format (unformatted written to %s)", debugPath),
				Cause:   err,
			}
		}
		out = formatted
	}

	if err := os.WriteFile(fullPath, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.name, err)
	}

	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(out))
	w.mu.Unlock()
	return nil
}

// IsExist reports whether err is a refusal to overwrite project files.
func IsExist(err error) bool {
	return errors.Is(err, fs.ErrExist)
}
