package mongo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// Store persists session documents in MongoDB, the database the session
// clients were originally built against. One collection holds the whole
// aggregate per room; saves replace the document wholesale.
type Store struct {
	sessions *mongo.Collection
	users    *mongo.Collection
}

// NewStore connects to uri and returns a store over the given database.
func NewStore(uri, database string) *Store {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping mongodb: %v", err)
	}

	db := client.Database(database)
	return &Store{
		sessions: db.Collection("sessions"),
		users:    db.Collection("users"),
	}
}

func (s *Store) FindID(ctx context.Context, id string) (*core.SessionDocument, error) {
	log := logrus.WithField("session_id", id)

	var doc core.SessionDocument
	err := s.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("Session document not found")
			return nil, fmt.Errorf("session %s: %w", id, core.ErrNotFound)
		}
		log.WithError(err).Error("Failed to retrieve session document")
		return nil, err
	}
	if doc.Surfaces == nil {
		doc.Surfaces = make(map[string]core.ContentState)
	}
	log.Debug("Session document retrieved")
	return &doc, nil
}

func (s *Store) Save(ctx context.Context, doc *core.SessionDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("session id is required")
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.sessions.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
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

// Users adapts the store to core.UserStore.
func (s *Store) Users() core.UserStore {
	return userStore{s}
}

type userStore struct{ s *Store }

func (u userStore) FindID(ctx context.Context, id string) (*core.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}

	var raw struct {
		ID       primitive.ObjectID `bson:"_id"`
		Username string             `bson:"username"`
		Email    string             `bson:"email"`
	}
	err = u.s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
		}
		return nil, err
	}
	return &core.User{ID: raw.ID.Hex(), Username: raw.Username, Email: raw.Email}, nil
}
