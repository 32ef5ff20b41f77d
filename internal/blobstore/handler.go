package blobstore

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/zjrosen/abikit/internal/log"
)

// MaxUploadBytes bounds blobs accepted over HTTP.
const MaxUploadBytes = 32 << 20

// Handler serves blobs over HTTP:
//
//	POST   /blobs       store the request body, 201 {"key": "blob-store://..."}
//	GET    /blobs/{id}  the stored bytes, 404 on a miss
//	DELETE /blobs/{id}  remove, 204 even when missing
type Handler struct {
	blobs Blobs
	mux   *http.ServeMux
}

// NewHandler creates the HTTP handler for blobs.
func NewHandler(blobs Blobs) *Handler {
	h := &Handler{blobs: blobs, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /blobs", h.store)
	h.mux.HandleFunc("GET /blobs/{id}", h.fetch)
	h.mux.HandleFunc("DELETE /blobs/{id}", h.remove)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// URLPath returns the handler path serving key.
func URLPath(key string) (string, error) {
	id, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	return "/blobs/" + id, nil
}

type storeResponse struct {
	Key string `json:"key"`
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		http.Error(w, "request body too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	key, err := h.blobs.Store(r.Context(), body)
	if err != nil {
		log.ErrorErr(log.CatServer, "store failed", err)
		http.Error(w, "store failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(storeResponse{Key: key})
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) {
	key := FormatKey(r.PathValue("id"))
	data, ok := h.blobs.Fetch(r.Context(), key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	key := FormatKey(r.PathValue("id"))
	if err := h.blobs.Remove(r.Context(), key); err != nil {
		log.ErrorErr(log.CatServer, "remove failed", err, "key", key)
		http.Error(w, "remove failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
