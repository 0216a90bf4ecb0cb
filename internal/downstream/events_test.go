package downstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
	appctx "github.com/baechuer/real-time-ressys/services/event-console/internal/pkg/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var launch = domain.Event{ID: "1", Name: "Launch", Date: "2025-01-01", Location: "HQ", Organizer: "Alice"}

func newTestClient(t *testing.T, h http.HandlerFunc) *EventClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewEventClient(srv.URL, NewClient(DefaultClientConfig()))
}

func TestDecodeList(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		want    []domain.Event
		wantErr bool
	}{
		{name: "bare_array", body: `[{"id":"1","name":"Launch","date":"2025-01-01","location":"HQ","organizer":"Alice"}]`, want: []domain.Event{launch}},
		{name: "data_envelope", body: `{"data":[{"id":"1","name":"Launch","date":"2025-01-01","location":"HQ","organizer":"Alice"}]}`, want: []domain.Event{launch}},
		{name: "empty_array", body: `[]`, want: []domain.Event{}},
		{name: "object_without_data", body: `{"items":[{"id":"1"}]}`, want: []domain.Event{}},
		{name: "data_is_object", body: `{"data":{"id":"1"}}`, want: []domain.Event{}},
		{name: "null", body: `null`, want: []domain.Event{}},
		{name: "string", body: `"hello"`, want: []domain.Event{}},
		{name: "empty_body", body: ``, want: []domain.Event{}},
		{name: "numeric_id", body: `[{"id":7,"name":"Launch","date":"2025-01-01","location":"HQ","organizer":"Alice"}]`,
			want: []domain.Event{{ID: "7", Name: "Launch", Date: "2025-01-01", Location: "HQ", Organizer: "Alice"}}},
		{name: "null_fields", body: `{"data":[{"id":"1","name":"Launch","date":null}]}`, want: []domain.Event{{ID: "1", Name: "Launch"}}},
		{name: "invalid_json", body: `{"data":[`, wantErr: true},
		{name: "bool_field", body: `[{"id":true}]`, wantErr: true},
		{name: "wrong_element_type", body: `[1,2]`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeList([]byte(tc.body))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeOne(t *testing.T) {
	ev, err := decodeOne([]byte(`{"id":"1","name":"Launch","date":"2025-01-01","location":"HQ","organizer":"Alice"}`))
	require.NoError(t, err)
	assert.Equal(t, launch, ev)

	ev, err = decodeOne([]byte(`{"data":{"id":"1","name":"Launch","date":"2025-01-01","location":"HQ","organizer":"Alice"}}`))
	require.NoError(t, err)
	assert.Equal(t, launch, ev)

	ev, err = decodeOne([]byte(`{"id":42,"name":"Launch"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.Event{ID: "42", Name: "Launch"}, ev)

	_, err = decodeOne([]byte(`{}`))
	assert.Error(t, err)

	_, err = decodeOne([]byte(`[]`))
	assert.Error(t, err)
}

func TestEventClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/eventapi/all", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(HeaderXRequestID))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []domain.Event{launch}})
	})

	events, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Event{launch}, events)
}

func TestEventClient_List_NumericIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"name":"Launch"},{"id":8.5}]`))
	})

	events, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "7", events[0].ID)
	assert.Equal(t, "Launch", events[0].Name)
	assert.Equal(t, "8.5", events[1].ID)
}

func TestEventClient_List_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":`))
	})

	_, err := c.List(context.Background())
	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindDecode, de.Kind)
	assert.Equal(t, OpList, de.Op)
}

func TestEventClient_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/eventapi/add", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got domain.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, launch, got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`"created"`))
	})

	assert.NoError(t, c.Create(context.Background(), launch))
}

func TestEventClient_Update_NonSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/eventapi/update", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"not_found"}}`))
	})

	err := c.Update(context.Background(), launch)
	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindStatus, de.Kind)
	assert.Equal(t, http.StatusNotFound, de.StatusCode)
}

func TestEventClient_Delete_EscapesID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/eventapi/delete/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.Delete(context.Background(), "a/b"))
}

func TestEventClient_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/eventapi/get/1":
			_ = json.NewEncoder(w).Encode(launch)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ev, err := c.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, launch, ev)

	_, err = c.Get(context.Background(), "404")
	assert.Equal(t, KindStatus, KindOf(err))
}

func TestEventClient_PropagatesRequestIDAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-7", r.Header.Get(HeaderXRequestID))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := DefaultClientConfig()
	cfg.Token = "secret"
	c := NewEventClient(srv.URL, NewClient(cfg))

	ctx := appctx.WithRequestID(context.Background(), "req-7")
	events, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewEventClient(url, NewClient(DefaultClientConfig()))
	_, err := c.List(context.Background())

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindNetwork, de.Kind)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestEventClient_ReadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := NewEventClient(srv.URL, NewClient(ClientConfig{ReadTimeout: 20 * time.Millisecond, WriteTimeout: time.Second}))
	_, err := c.Get(context.Background(), "1")
	assert.True(t, errors.Is(err, ErrTimeout))
}
