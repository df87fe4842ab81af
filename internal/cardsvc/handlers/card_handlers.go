package handlers

import (
	"net/http"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"github.com/troycsc/desk-services/internal/cardsvc/service"
)

const cardNotFound = "Card not found"

// POST /cards?action=assign|unassign
func (h *Handler) CardAction(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "assign":
		h.assignCard(w, r)
	case "unassign":
		h.unassignCard(w, r)
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

func (h *Handler) assignCard(w http.ResponseWriter, r *http.Request) {
	var in service.AssignInput
	if err := decodeBody(r, &in); err != nil {
		writeFailure(w, r, err, cardNotFound)
		return
	}

	card, err := h.cards.Assign(r.Context(), in, h.staff(r))
	if err != nil {
		writeFailure(w, r, err, requestNotFound)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Card    *models.Card `json:"card"`
		Message string       `json:"message"`
	}{card, "Card assigned successfully"})
}

func (h *Handler) unassignCard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CardNumber string `json:"cardNumber"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, r, err, cardNotFound)
		return
	}

	entry, err := h.cards.Return(r.Context(), body.CardNumber, h.staff(r))
	if err != nil {
		writeFailure(w, r, err, cardNotFound)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string           `json:"message"`
		Log     *models.LogEntry `json:"log"`
	}{"Card returned successfully", entry})
}

// GET /cards?cardNumber=
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	status, err := h.cards.Status(r.Context(), r.URL.Query().Get("cardNumber"))
	if err != nil {
		writeFailure(w, r, err, cardNotFound)
		return
	}
	if status == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"exists": false, "isAssigned": false})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// PUT /cards?cardNumber= {isActive}
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsActive *bool `json:"isActive"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, r, err, cardNotFound)
		return
	}
	if body.IsActive == nil {
		writeError(w, http.StatusBadRequest, "isActive is required")
		return
	}

	card, err := h.cards.SetActive(r.Context(), r.URL.Query().Get("cardNumber"), *body.IsActive)
	if err != nil {
		writeFailure(w, r, err, cardNotFound)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) GetCardHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.cards.History(r.Context(), r.URL.Query().Get("cardNumber"))
	if err != nil {
		writeFailure(w, r, err, cardNotFound)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.logs.List(r.Context(), models.LogFilter{
		Action:     q.Get("action"),
		CardNumber: q.Get("cardNumber"),
	})
	if err != nil {
		writeFailure(w, r, err, "Log not found")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
