package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// Store keeps session documents and users in process memory. It is the
// default backend and the one the test suites run against.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]*core.SessionDocument
	users map[string]*core.User
}

func NewStore() *Store {
	return &Store{
		docs:  make(map[string]*core.SessionDocument),
		users: make(map[string]*core.User),
	}
}

func (s *Store) FindID(ctx context.Context, id string) (*core.SessionDocument, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()

	log := logrus.WithField("session_id", id)
	if !ok {
		log.Debug("Session document not found")
		return nil, fmt.Errorf("session %s: %w", id, core.ErrNotFound)
	}
	log.Debug("Session document retrieved")
	return doc.Clone(), nil
}

func (s *Store) Save(ctx context.Context, doc *core.SessionDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("session id is required")
	}
	s.mu.Lock()
	s.docs[doc.ID] = doc.Clone()
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session_id":   doc.ID,
		"participants": len(doc.Participants),
	}).Debug("Session document saved")
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

func (s *Store) FindUser(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	u, ok := s.users[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

// PutUser seeds a registered user, mainly for tests and local runs.
func (s *Store) PutUser(u *core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *u
	s.users[u.ID] = &copied
}

// Users adapts the store to core.UserStore.
func (s *Store) Users() core.UserStore {
	return userStore{s}
}

type userStore struct{ s *Store }

func (u userStore) FindID(ctx context.Context, id string) (*core.User, error) {
	return u.s.FindUser(ctx, id)
}
