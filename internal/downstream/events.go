package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/logger"
)

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpGet    = "get"
)

// EventClient talks to the /eventapi REST contract. BaseURL is fixed at
// construction.
type EventClient struct {
	BaseURL string
	HTTP    *Client
}

func NewEventClient(baseURL string, httpClient *Client) *EventClient {
	if httpClient == nil {
		httpClient = NewClient(DefaultClientConfig())
	}
	return &EventClient{BaseURL: baseURL, HTTP: httpClient}
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *EventClient) List(ctx context.Context) ([]domain.Event, error) {
	body, err := c.call(ctx, OpList, http.MethodGet, c.BaseURL+"/eventapi/all", nil)
	if err != nil {
		return nil, err
	}
	events, err := decodeList(body)
	if err != nil {
		return nil, &Error{Op: OpList, Kind: KindDecode, Err: err}
	}
	return events, nil
}

func (c *EventClient) Create(ctx context.Context, e domain.Event) error {
	_, err := c.callJSON(ctx, OpCreate, http.MethodPost, c.BaseURL+"/eventapi/add", e)
	return err
}

func (c *EventClient) Update(ctx context.Context, e domain.Event) error {
	_, err := c.callJSON(ctx, OpUpdate, http.MethodPut, c.BaseURL+"/eventapi/update", e)
	return err
}

func (c *EventClient) Delete(ctx context.Context, id string) error {
	_, err := c.call(ctx, OpDelete, http.MethodDelete, c.BaseURL+"/eventapi/delete/"+url.PathEscape(id), nil)
	return err
}

func (c *EventClient) Get(ctx context.Context, id string) (domain.Event, error) {
	body, err := c.call(ctx, OpGet, http.MethodGet, c.BaseURL+"/eventapi/get/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Event{}, err
	}
	ev, err := decodeOne(body)
	if err != nil {
		return domain.Event{}, &Error{Op: OpGet, Kind: KindDecode, Err: err}
	}
	return ev, nil
}

func (c *EventClient) callJSON(ctx context.Context, op, method, u string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindDecode, Err: fmt.Errorf("marshal request: %w", err)}
	}
	return c.call(ctx, op, method, u, bytes.NewReader(raw))
}

func (c *EventClient) call(ctx context.Context, op, method, u string, body io.Reader) ([]byte, error) {
	headers := map[string]string{"Accept": "application/json"}
	if body != nil {
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.HTTP.DoWithBody(ctx, method, u, body, headers)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Ctx(ctx).Debug().Str("op", op).Int("status", resp.StatusCode).Msg("eventapi_non_success")
		return nil, &Error{Op: op, Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	return out, nil
}

// decodeList accepts a bare array or {"data": [...]}. Any other valid JSON
// yields an empty list without error; invalid JSON is an error.
func decodeList(body []byte) ([]domain.Event, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []domain.Event{}, nil
	}
	if !json.Valid(body) {
		return nil, errors.New("invalid json")
	}

	switch body[0] {
	case '[':
		return decodeArray(body)
	case '{':
		var env dataEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return []domain.Event{}, nil
		}
		inner := bytes.TrimSpace(env.Data)
		if len(inner) > 0 && inner[0] == '[' {
			return decodeArray(inner)
		}
	}
	return []domain.Event{}, nil
}

func decodeArray(raw []byte) ([]domain.Event, error) {
	var wire []wireEvent
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}
	events := make([]domain.Event, len(wire))
	for i, w := range wire {
		events[i] = w.toDomain()
	}
	return events, nil
}

// wireEvent is the lenient read shape of an event: numeric ids and null
// fields from other backends still decode.
type wireEvent struct {
	ID        looseString `json:"id"`
	Name      looseString `json:"name"`
	Date      looseString `json:"date"`
	Location  looseString `json:"location"`
	Organizer looseString `json:"organizer"`
}

func (w wireEvent) toDomain() domain.Event {
	return domain.Event{
		ID:        string(w.ID),
		Name:      string(w.Name),
		Date:      string(w.Date),
		Location:  string(w.Location),
		Organizer: string(w.Organizer),
	}
}

// looseString takes a JSON string, number or null. Numbers keep their
// literal text.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", b)
		}
		*s = looseString(n.String())
	}
	return nil
}

// decodeOne accepts an Event object or {"data": Event}. A record without an
// id counts as missing.
func decodeOne(body []byte) (domain.Event, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return domain.Event{}, errors.New("expected event object")
	}

	var env dataEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if inner := bytes.TrimSpace(env.Data); len(inner) > 0 && inner[0] == '{' {
			body = inner
		}
	}

	var w wireEvent
	if err := json.Unmarshal(body, &w); err != nil {
		return domain.Event{}, err
	}
	ev := w.toDomain()
	if ev.ID == "" {
		return domain.Event{}, errors.New("event without id")
	}
	return ev, nil
}
