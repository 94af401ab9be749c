package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// Store writes one JSON file per session document under basePath.
type Store struct {
	basePath string
}

func NewStore(basePath string) *Store {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		log.Fatalf("failed to create base directory: %v", err)
	}
	return &Store{basePath: basePath}
}

func (s *Store) path(id string) string {
	return filepath.Join(s.basePath, id+".json")
}

func (s *Store) FindID(ctx context.Context, id string) (*core.SessionDocument, error) {
	log := logrus.WithField("session_id", id)

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("Session document not found")
			return nil, fmt.Errorf("session %s: %w", id, core.ErrNotFound)
		}
		log.WithError(err).Error("Failed to read session document")
		return nil, err
	}

	var doc core.SessionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		log.WithError(err).Error("Failed to decode session document")
		return nil, err
	}
	if doc.Surfaces == nil {
		doc.Surfaces = make(map[string]core.ContentState)
	}
	return &doc, nil
}

func (s *Store) Save(ctx context.Context, doc *core.SessionDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("session id is required")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(doc.ID), data, 0o644); err != nil {
		logrus.WithError(err).WithField("session_id", doc.ID).Error("Failed to write session document")
		return err
	}
	return nil
}

func (s *Store) Create(ctx context.Context, doc *core.SessionDocument) (string, error) {
	if doc.ID == "" {
		doc.ID = ulid.Make().String()
	}
	if err := s.Save(ctx, doc); err != nil {
		return "", err
	}
	logrus.WithField("session_id", doc.ID).Info("Session document created")
	return doc.ID, nil
}
