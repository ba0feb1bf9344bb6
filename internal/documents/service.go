package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/sirupsen/logrus"
)

// Service wraps the document endpoints of the RAG API for the management
// console: catalog listing, upload, metadata edits and deletion.
type Service struct {
	client *ragapi.Client
	logger *logrus.Logger
}

func NewService(client *ragapi.Client, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, token string) ([]ragapi.Document, error) {
	docs, err := s.client.ListDocuments(ctx, token)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("count", len(docs)).Debug("Fetched document catalog")
	return docs, nil
}

// Upload sends a local file as a multipart form. Tags are given
// comma-separated and expanded into repeated tags[] fields; title is
// optional and omitted when blank.
func (s *Service) Upload(ctx context.Context, token, path, title, tags string) (*ragapi.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	doc, err := s.client.UploadDocument(ctx, token,
		filepath.Base(path), file,
		strings.TrimSpace(title), SplitTags(tags))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"file":  filepath.Base(path),
		"id":    doc.ID,
		"title": doc.Title,
	}).Info("Document uploaded")

	return doc, nil
}

func (s *Service) Update(ctx context.Context, token, id string, req ragapi.DocumentUpdateRequest) error {
	if id == "" {
		return fmt.Errorf("document id is required")
	}
	return s.client.UpdateDocument(ctx, token, id, req)
}

func (s *Service) Delete(ctx context.Context, token, id string) error {
	if id == "" {
		return fmt.Errorf("document id is required")
	}
	return s.client.DeleteDocument(ctx, token, id)
}

// SplitTags turns a comma-separated tag string into a clean slice, dropping
// whitespace-only entries. Nil for an effectively empty input.
func SplitTags(tags string) []string {
	var out []string
	for _, tag := range strings.Split(tags, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
