package handlers

import (
	"net/http"

	"github.com/troycsc/desk-services/internal/cardsvc/service"
)

const requestNotFound = "Request not found"

// GET /requests, ?pending=true, ?id=
func (h *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if id := q.Get("id"); id != "" {
		req, err := h.requests.Get(r.Context(), id)
		if err != nil {
			writeFailure(w, r, err, requestNotFound)
			return
		}
		writeJSON(w, http.StatusOK, req)
		return
	}

	list, err := h.requests.List(r.Context(), q.Get("pending") == "true")
	if err != nil {
		writeFailure(w, r, err, requestNotFound)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var in service.NewRequest
	if err := decodeBody(r, &in); err != nil {
		writeFailure(w, r, err, requestNotFound)
		return
	}

	req, err := h.requests.Create(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err, requestNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Request id is required")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, r, err, requestNotFound)
		return
	}

	if err := h.requests.UpdateStatus(r.Context(), id, body.Status); err != nil {
		writeFailure(w, r, err, requestNotFound)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Request updated"})
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Request id is required")
		return
	}

	if err := h.requests.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err, requestNotFound)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Request deleted"})
}
