package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rpattn/contactsvc/internal/auth"

	"github.com/google/uuid"
)

// Handler exposes the import pipeline as an HTTP upload endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST multipart endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ownerID, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		// Deployments without the auth layer supply the owner explicitly.
		ownerID, err = uuid.Parse(strings.TrimSpace(r.FormValue("ownerId")))
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid owner id: %v", err), http.StatusBadRequest)
			return
		}
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	mediaType := header.Header.Get("Content-Type")

	report, err := h.service.Import(r.Context(), payload, mediaType, header.Filename, ownerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
