// internal/transport/document.go
package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Document materializes the receipt as a PDF that the operator downloads
// and prints manually. Success means the file is retrievable.
type Document struct {
	opener    SurfaceOpener
	dir       string
	urlPrefix string
	logger    *zap.Logger
}

// NewDocument creates the document transport. Files land in dir and are
// announced as urlPrefix + "/" + name.
func NewDocument(opener SurfaceOpener, dir, urlPrefix string, logger *zap.Logger) *Document {
	return &Document{
		opener:    opener,
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		logger:    logger.With(zap.String("transport", "document")),
	}
}

func (d *Document) Name() string { return "document" }

// Deliver renders the markup to PDF and stores it
func (d *Document) Deliver(ctx context.Context, document string, dest Destination) Result {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return Fail(fmt.Errorf("failed to prepare document directory: %w", err))
	}

	surface, err := d.opener.Open(ctx)
	if err != nil {
		return Fail(fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err))
	}
	defer surface.Close()

	if err := surface.Load(ctx, document); err != nil {
		return Fail(err)
	}
	pdf, err := surface.PDF(ctx)
	if err != nil {
		return Fail(err)
	}

	name := documentName(dest.JobID)
	if err := os.WriteFile(filepath.Join(d.dir, name), pdf, 0o644); err != nil {
		return Fail(fmt.Errorf("failed to store document: %w", err))
	}

	d.logger.Info("Document stored",
		zap.String("job_id", dest.JobID),
		zap.String("name", name),
		zap.Int("bytes", len(pdf)),
	)
	return OKAt(d.urlPrefix + "/" + name)
}

// Path resolves a document name returned by Deliver to its file
func (d *Document) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".pdf") {
		return "", fmt.Errorf("invalid document name: %q", name)
	}

	path := filepath.Join(d.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document not found: %w", err)
	}
	return path, nil
}

func documentName(jobID string) string {
	id := jobID
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	return "receipt-" + id + ".pdf"
}
