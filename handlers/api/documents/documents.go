package documents

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
	"github.com/Bharadwaj710/Collab-Tool/middleware"
)

type (
	CreateRequest struct {
		Title   string `json:"title"`
		OwnerID string `json:"ownerId"`
	}

	CreateResponse struct {
		ID string `json:"id"`
	}
)

// HandleCreate creates a session document. The owner comes from the
// authenticated claims when present, otherwise from the request body
// (guest-created ad-hoc sessions).
func HandleCreate(store core.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.WithError(err).Error("Failed to decode request")
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ownerID := req.OwnerID
		if claims := middleware.ClaimsFrom(r.Context()); claims != nil {
			ownerID = claims.UserID
		}
		if ownerID == "" {
			http.Error(w, "ownerId is required", http.StatusBadRequest)
			return
		}

		doc := core.NewSessionDocument("", req.Title, ownerID, time.Now())
		id, err := store.Create(r.Context(), doc)
		if err != nil {
			logrus.WithError(err).Error("Failed to create session document")
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, CreateResponse{ID: id})
	}
}

// HandleGet fetches a session document by id.
func HandleGet(store core.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		doc, err := store.FindID(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			logrus.WithError(err).Error("Failed to fetch session document")
			http.Error(w, "Failed to fetch session", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, doc)
	}
}
