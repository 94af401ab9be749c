package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when the requested record does not
// exist. Callers branch on it with errors.Is.
var ErrNotFound = errors.New("not found")

type (
	// DocumentStore is the durable home of session aggregates. Save is an
	// idempotent upsert of the whole aggregate.
	DocumentStore interface {
		FindID(ctx context.Context, id string) (*SessionDocument, error)
		Save(ctx context.Context, doc *SessionDocument) error
		Create(ctx context.Context, doc *SessionDocument) (string, error)
	}

	// UserStore resolves registered accounts. The sync engine only uses
	// it to refresh a creator's authoritative display name.
	UserStore interface {
		FindID(ctx context.Context, id string) (*User, error)
	}

	RoomActivity struct {
		ID         string `json:"id"`
		LastActive int64  `json:"lastActive"`
	}

	// ActivityRegistry tracks which rooms have seen recent traffic. It
	// backs the room listing endpoint and can be swapped for a shared
	// cache in a multi-instance deployment.
	ActivityRegistry interface {
		Touch(ctx context.Context, roomID string, at time.Time) error
		List(ctx context.Context) ([]RoomActivity, error)
	}
)
