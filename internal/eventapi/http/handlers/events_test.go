package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/catalog"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/http/response"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/store/memory"
)

type mockClock struct{ t time.Time }

func (m mockClock) Now() time.Time { return m.t }

const launchJSON = `{"id":"1","name":"Launch","date":"2026-05-01","location":"Hall A","organizer":"Ana"}`

func newHandler(t *testing.T) *EventsHandler {
	t.Helper()
	svc := catalog.New(memory.New(), mockClock{t: time.Now().UTC()}, nil, nil, 0)
	return NewEventsHandler(svc)
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) response.ErrorPayload {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestEventsHandler_AddListGet(t *testing.T) {
	h := newHandler(t)

	rr := httptest.NewRecorder()
	h.Add(rr, httptest.NewRequest(http.MethodPost, "/eventapi/add", strings.NewReader(launchJSON)))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"data":`+launchJSON+`}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/eventapi/all", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[`+launchJSON+`]}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Get(rr, withID(httptest.NewRequest(http.MethodGet, "/eventapi/get/1", nil), "1"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":`+launchJSON+`}`, rr.Body.String())
}

func TestEventsHandler_ListEmpty(t *testing.T) {
	rr := httptest.NewRecorder()
	newHandler(t).List(rr, httptest.NewRequest(http.MethodGet, "/eventapi/all", nil))
	assert.JSONEq(t, `{"data":[]}`, rr.Body.String())
}

func TestEventsHandler_AddValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"blank_name", `{"id":"1","name":"  ","date":"d","location":"l","organizer":"o"}`, "name"},
		{"missing_organizer", `{"id":"1","name":"n","date":"d","location":"l"}`, "organizer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newHandler(t).Add(rr, httptest.NewRequest(http.MethodPost, "/eventapi/add", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			e := errorCode(t, rr)
			assert.Equal(t, "validation_error", e.Code)
			assert.Equal(t, "is required", e.Meta[tt.field])
		})
	}
}

func TestEventsHandler_AddBadJSON(t *testing.T) {
	for _, body := range []string{`{`, `[1,2]`, ``} {
		rr := httptest.NewRecorder()
		newHandler(t).Add(rr, httptest.NewRequest(http.MethodPost, "/eventapi/add", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid json body", errorCode(t, rr).Message)
	}
}

func TestEventsHandler_AddDuplicate(t *testing.T) {
	h := newHandler(t)
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.Add(rr, httptest.NewRequest(http.MethodPost, "/eventapi/add", strings.NewReader(launchJSON)))
		if i == 1 {
			assert.Equal(t, http.StatusConflict, rr.Code)
		}
	}
}

func TestEventsHandler_UpdateDelete(t *testing.T) {
	h := newHandler(t)

	rr := httptest.NewRecorder()
	h.Update(rr, httptest.NewRequest(http.MethodPut, "/eventapi/update", strings.NewReader(launchJSON)))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.Add(rr, httptest.NewRequest(http.MethodPost, "/eventapi/add", strings.NewReader(launchJSON)))
	require.Equal(t, http.StatusCreated, rr.Code)

	changed := strings.Replace(launchJSON, "Hall A", "Hall B", 1)
	rr = httptest.NewRecorder()
	h.Update(rr, httptest.NewRequest(http.MethodPut, "/eventapi/update", strings.NewReader(changed)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Hall B")

	rr = httptest.NewRecorder()
	h.Delete(rr, withID(httptest.NewRequest(http.MethodDelete, "/eventapi/delete/1", nil), "1"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"id":"1"}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Delete(rr, withID(httptest.NewRequest(http.MethodDelete, "/eventapi/delete/1", nil), "1"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventsHandler_GetMissing(t *testing.T) {
	rr := httptest.NewRecorder()
	newHandler(t).Get(rr, withID(httptest.NewRequest(http.MethodGet, "/eventapi/get/9", nil), "9"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", errorCode(t, rr).Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	ok := NewHealthHandler(map[string]Pinger{"db": pingerFunc(func(context.Context) error { return nil })})

	rr := httptest.NewRecorder()
	ok.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	ok.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	down := NewHealthHandler(map[string]Pinger{"redis": pingerFunc(func(context.Context) error { return errors.New("refused") })})
	rr = httptest.NewRecorder()
	down.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "refused", errorCode(t, rr).Meta["redis"])
}

func TestValidateRequest_ToDomain(t *testing.T) {
	req := eventReq{ID: "1", Name: "n", Date: "d", Location: "l", Organizer: "o"}
	require.NoError(t, validateRequest(req))
	assert.Equal(t, domain.Event{ID: "1", Name: "n", Date: "d", Location: "l", Organizer: "o"}, req.toDomain())
}
