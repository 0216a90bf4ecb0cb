package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/catalog"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/http/response"
)

type eventReq struct {
	ID        string `json:"id" validate:"notblank,max=128"`
	Name      string `json:"name" validate:"notblank,max=256"`
	Date      string `json:"date" validate:"notblank,max=64"`
	Location  string `json:"location" validate:"notblank,max=256"`
	Organizer string `json:"organizer" validate:"notblank,max=256"`
}

func (r eventReq) toDomain() domain.Event {
	return domain.Event{
		ID:        r.ID,
		Name:      r.Name,
		Date:      r.Date,
		Location:  r.Location,
		Organizer: r.Organizer,
	}
}

type EventsHandler struct {
	svc *catalog.Service
}

func NewEventsHandler(svc *catalog.Service) *EventsHandler {
	return &EventsHandler{svc: svc}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, events)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, e)
}

func (h *EventsHandler) Add(w http.ResponseWriter, r *http.Request) {
	e, ok := h.readEvent(w, r)
	if !ok {
		return
	}
	if err := h.svc.Create(r.Context(), e); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, e)
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	e, ok := h.readEvent(w, r)
	if !ok {
		return
	}
	if err := h.svc.Update(r.Context(), e); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, e)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, map[string]string{"id": id})
}

func (h *EventsHandler) readEvent(w http.ResponseWriter, r *http.Request) (domain.Event, bool) {
	var req eventReq
	if err := decodeJSON(r, &req); err != nil {
		response.Err(w, r, err)
		return domain.Event{}, false
	}
	if err := validateRequest(req); err != nil {
		response.Err(w, r, err)
		return domain.Event{}, false
	}
	return req.toDomain(), true
}
