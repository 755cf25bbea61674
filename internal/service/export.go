package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/persistorai/mindmap/internal/domain"
	"github.com/persistorai/mindmap/internal/models"
)

var (
	_ domain.ExportSink = (*FileSink)(nil)
	_ domain.ExportSink = (*WriterSink)(nil)
)

// FileSink writes each export to <dir>/mindmap_export_<id>.json.
type FileSink struct {
	dir string
}

// NewFileSink creates a FileSink writing into dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Save writes doc as indented JSON and returns the file path.
func (s *FileSink) Save(_ context.Context, id models.NodeID, doc json.RawMessage) (string, error) {
	out, err := indent(doc)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, models.ExportFileName(id))
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}

	return path, nil
}

// WriterSink streams each export to w, e.g. stdout.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a WriterSink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Save writes doc to the underlying writer.
func (s *WriterSink) Save(_ context.Context, _ models.NodeID, doc json.RawMessage) (string, error) {
	out, err := indent(doc)
	if err != nil {
		return "", err
	}

	if _, err := s.w.Write(out); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}

	return "-", nil
}

func indent(doc json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return nil, fmt.Errorf("formatting export: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}
