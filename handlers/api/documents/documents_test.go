package documents

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bharadwaj710/Collab-Tool/core"
	"github.com/Bharadwaj710/Collab-Tool/stores/memory"
)

func newRouter(store core.DocumentStore) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/sessions", HandleCreate(store))
	r.Get("/api/sessions/{id}", HandleGet(store))
	return r
}

func TestHandleCreate(t *testing.T) {
	store := memory.NewStore()
	router := newRouter(store)

	body := strings.NewReader(`{"title":"Interview","ownerId":"amy"}`)
	req := httptest.NewRequest("POST", "/api/sessions", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp CreateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("Expected an assigned session id")
	}

	doc, err := store.FindID(req.Context(), resp.ID)
	if err != nil {
		t.Fatalf("Created session must be retrievable: %v", err)
	}
	if doc.Title != "Interview" || doc.OwnerID != "amy" {
		t.Errorf("Unexpected document: %+v", doc)
	}
}

func TestHandleCreateRequiresOwner(t *testing.T) {
	router := newRouter(memory.NewStore())

	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(`{"title":"No owner"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleCreateRejectsMalformedBody(t *testing.T) {
	router := newRouter(memory.NewStore())

	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleGet(t *testing.T) {
	store := memory.NewStore()
	router := newRouter(store)

	doc := core.NewSessionDocument("s1", "Interview", "amy", time.Now())
	req := httptest.NewRequest("GET", "/api/sessions/s1", nil)
	if err := store.Save(req.Context(), doc); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var got core.SessionDocument
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.ID != "s1" || got.Title != "Interview" {
		t.Errorf("Unexpected document: %+v", got)
	}
}

func TestHandleGetNotFound(t *testing.T) {
	router := newRouter(memory.NewStore())

	req := httptest.NewRequest("GET", "/api/sessions/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
