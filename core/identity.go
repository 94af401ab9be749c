package core

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IdentityKind string

const (
	IdentityUser  IdentityKind = "user"
	IdentityGuest IdentityKind = "guest"
)

// Identity is the tagged form of "who is acting". It is resolved exactly
// once, when a connection joins, and threaded through every call after
// that; nothing downstream re-derives the kind from the id string.
type Identity struct {
	Kind IdentityKind `json:"kind" bson:"kind"`
	ID   string       `json:"id" bson:"id"`
}

// ParseIdentity classifies a caller-supplied id. Registered users carry a
// Mongo ObjectID (24 hex characters); anything else is a guest id minted
// by the client.
func ParseIdentity(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, fmt.Errorf("identity id is required")
	}
	if _, err := primitive.ObjectIDFromHex(raw); err == nil {
		return Identity{Kind: IdentityUser, ID: raw}, nil
	}
	return Identity{Kind: IdentityGuest, ID: raw}, nil
}

func (i Identity) IsZero() bool {
	return i.ID == ""
}

func (i Identity) Equal(other Identity) bool {
	return i.Kind == other.Kind && i.ID == other.ID
}

func (i Identity) String() string {
	return string(i.Kind) + ":" + i.ID
}
