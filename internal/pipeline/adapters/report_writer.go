package adapters

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/service"
)

// ReportPrefix and ExcelReportPrefix start the monthly report file names
const (
	ReportPrefix      = "Suivi"
	ExcelReportPrefix = "Suivi_Excel"
)

// YAMLReportWriter stores the follow-up document context as YAML, ready for
// a template renderer.
type YAMLReportWriter struct {
	dir    string
	logger *slog.Logger
}

// NewYAMLReportWriter creates a writer storing reports under dir
func NewYAMLReportWriter(dir string, logger *slog.Logger) *YAMLReportWriter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &YAMLReportWriter{dir: dir, logger: logger}
}

// Write stores the context in Suivi_<month>_<year>.yaml and returns the path
func (w *YAMLReportWriter) Write(rc service.ReportContext, now time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", domain.WrapError(domain.ErrCodeStorageWrite, "cannot create reports directory "+w.dir, err)
	}
	path := filepath.Join(w.dir, service.ReportFileName(ReportPrefix, ".yaml", now))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rc); err != nil {
		return "", domain.WrapError(domain.ErrCodeStorageWrite, "cannot encode report", err)
	}
	if err := enc.Close(); err != nil {
		return "", domain.WrapError(domain.ErrCodeStorageWrite, "cannot encode report", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", domain.WrapError(domain.ErrCodeStorageWrite, "cannot write report "+path, err)
	}

	w.logger.Debug("report written", "path", path, "projects", len(rc.Projects))
	return path, nil
}
