package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// Store keeps session aggregates in SQLite, one JSON blob per row. The
// aggregate is always read and written whole, so a blob column beats a
// normalized schema here.
type Store struct {
	db *sql.DB
}

func NewStore(dataSourceName string) *Store {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	stmt := `CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	if _, err = db.Exec(stmt); err != nil {
		log.Fatalf("failed to create sessions table: %v", err)
	}

	return &Store{db: db}
}

func (s *Store) FindID(ctx context.Context, id string) (*core.SessionDocument, error) {
	log := logrus.WithField("session_id", id)

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM sessions WHERE id = ?", id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("Session document not found")
			return nil, fmt.Errorf("session %s: %w", id, core.ErrNotFound)
		}
		log.WithError(err).Error("Failed to retrieve session document")
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

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		doc.ID, data, time.Now())
	if err != nil {
		logrus.WithError(err).WithField("session_id", doc.ID).Error("Failed to save session document")
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
