package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// HandleGet fetches a registered user's public profile.
func HandleGet(store core.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if store == nil {
			http.Error(w, "User lookup not available", http.StatusNotImplemented)
			return
		}

		user, err := store.FindID(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			logrus.WithError(err).Error("Failed to fetch user")
			http.Error(w, "Failed to fetch user", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, user)
	}
}
