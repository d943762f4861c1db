// Package contacts exposes the read and single-create endpoints over the
// contact repository. The import pipeline lives in internal/ingestion.
package contacts

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpattn/contactsvc/internal/auth"
	"github.com/rpattn/contactsvc/internal/domain"
	"github.com/rpattn/contactsvc/internal/repository"
	"github.com/rpattn/contactsvc/internal/validate"

	"github.com/google/uuid"
)

// Handler serves contact CRUD requests for an authenticated owner.
type Handler struct {
	contacts repository.ContactRepository
}

// NewHandler creates a handler over the contact repository.
func NewHandler(contacts repository.ContactRepository) *Handler {
	return &Handler{contacts: contacts}
}

type listResponse struct {
	Items []domain.Contact `json:"items"`
	Total int              `json:"total"`
}

// List returns one page of the owner's contacts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	limit := intQuery(r, "limit", 10)
	offset := intQuery(r, "offset", 0)

	items, total, err := h.contacts.List(r.Context(), ownerID, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total})
}

// Get returns a single contact by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid contact id: %v", err), http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), ownerID, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Create validates and stores a single contact from a JSON body. The same
// field rules apply as for imported rows.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var body domain.ContactCandidate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid json body: %v", err), http.StatusBadRequest)
		return
	}

	candidate, messages := validate.Record(map[string]string{
		domain.FieldName:          strings.TrimSpace(body.Name),
		domain.FieldTaxID:         body.TaxID,
		domain.FieldPhone:         body.Phone,
		domain.FieldRegion:        body.Region,
		domain.FieldContactPerson: body.ContactPerson,
		domain.FieldEmail:         body.Email,
	})
	if len(messages) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"messages": messages})
		return
	}

	created, err := h.contacts.Create(r.Context(), domain.NewContact(ownerID, candidate))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

type updateRequest struct {
	Region        *string `json:"region"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email"`
}

// Update rewrites the mutable fields of one contact. Identity fields
// (name, tax id, phone) and the owner stay as imported; absent body fields
// are left untouched.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid contact id: %v", err), http.StatusBadRequest)
		return
	}

	var body updateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid json body: %v", err), http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), ownerID, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if body.Region != nil {
		contact.Region = strings.TrimSpace(*body.Region)
	}
	if body.ContactPerson != nil {
		contact.ContactPerson = strings.TrimSpace(*body.ContactPerson)
	}
	if body.Email != nil {
		contact.Email = strings.TrimSpace(*body.Email)
	}
	if contact.Email != "" && !validate.Email(contact.Email) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"messages": []string{fmt.Sprintf("invalid email: %s", contact.Email)}})
		return
	}

	updated, err := h.contacts.Update(r.Context(), contact)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func requireOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if id, ok := auth.OwnerIDFromContext(r.Context()); ok {
		return id, true
	}
	id, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("ownerId")))
	if err != nil {
		http.Error(w, "owner id is required", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
