package handler

import (
	"net/http"

	"github.com/clutchden/clutchden-backend/internal/models"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	message := "Events retrieved successfully"
	if len(events) == 0 {
		message = "No events available yet"
	}
	h.writeSuccess(w, http.StatusOK, message, events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", event)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if !h.decode(w, r, &event) {
		return
	}

	if err := h.events.Create(r.Context(), &event); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Created", event)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var event models.Event
	if !h.decode(w, r, &event) {
		return
	}
	event.ID = id

	if err := h.events.Update(r.Context(), &event); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Updated", event)
}
