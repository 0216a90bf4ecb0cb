package collection

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/downstream"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/form"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/logger"
)

// EventAPI is the remote CRUD boundary. Every failure is reported as a
// non-nil error; the controller never inspects it beyond logging.
type EventAPI interface {
	List(ctx context.Context) ([]domain.Event, error)
	Create(ctx context.Context, e domain.Event) error
	Update(ctx context.Context, e domain.Event) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.Event, error)
}

type Form interface {
	Validate() (domain.Event, error)
	BeginEdit(source domain.Event)
	Reset()
	Draft() domain.Event
	Mode() form.Mode
}

// View is a point-in-time copy of everything the console renders.
type View struct {
	Events  []domain.Event
	Lookup  *domain.Event
	Message domain.Message
	Draft   domain.Event
	Mode    form.Mode
}

// Controller owns the list mirror, the lookup slot and the status message.
// The mutex is never held across an API call. List and lookup responses are
// sequenced: a response older than one already applied is dropped.
type Controller struct {
	api  EventAPI
	form Form

	mu      sync.Mutex
	events  []domain.Event
	lookup  *domain.Event
	message domain.Message
	closed  bool

	listIssued    uint64
	listApplied   uint64
	lookupIssued  uint64
	lookupApplied uint64
}

func New(api EventAPI, f Form) *Controller {
	return &Controller{
		api:    api,
		form:   f,
		events: []domain.Event{},
	}
}

func (c *Controller) RefreshAll(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.listIssued++
	seq := c.listIssued
	c.mu.Unlock()

	events, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if seq < c.listApplied {
		logger.Ctx(ctx).Debug().Uint64("seq", seq).Uint64("applied", c.listApplied).Msg("stale_list_response_dropped")
		return
	}
	c.listApplied = seq

	if err != nil {
		logFailure(ctx, downstream.OpList, err)
		c.events = []domain.Event{}
		c.message = domain.NewMessage(msgListFailed)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	c.events = events
}

func (c *Controller) Create(ctx context.Context, draft domain.Event) {
	c.mutate(ctx, draft, downstream.OpCreate, c.api.Create, msgAdded, msgAddFailed)
}

// Update fails with the generic update message for an unknown id as well.
func (c *Controller) Update(ctx context.Context, draft domain.Event) {
	c.mutate(ctx, draft, downstream.OpUpdate, c.api.Update, msgUpdated, msgUpdateFailed)
}

func (c *Controller) mutate(
	ctx context.Context,
	draft domain.Event,
	op string,
	call func(context.Context, domain.Event) error,
	okMsg, failMsg string,
) {
	if !c.active() {
		return
	}
	if err := draft.Validate(); err != nil {
		c.setValidationMessage(err)
		return
	}

	if err := call(ctx, draft); err != nil {
		logFailure(ctx, op, err)
		c.setMessage(failMsg)
		return
	}

	logger.Ctx(ctx).Info().Str("op", op).Str("event_id", draft.ID).Msg("event_saved")
	c.setMessage(okMsg)
	c.RefreshAll(ctx)
	if c.active() {
		c.form.Reset()
	}
}

func (c *Controller) Remove(ctx context.Context, id string) {
	if !c.active() {
		return
	}
	if err := c.api.Delete(ctx, id); err != nil {
		logFailure(ctx, downstream.OpDelete, err)
		c.setMessage(msgDeleteFailed)
		return
	}

	logger.Ctx(ctx).Info().Str("op", downstream.OpDelete).Str("event_id", id).Msg("event_deleted")
	c.setMessage(msgDeleted)
	c.RefreshAll(ctx)
}

func (c *Controller) FetchByID(ctx context.Context, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		c.setMessage(msgEnterID)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.lookupIssued++
	seq := c.lookupIssued
	c.mu.Unlock()

	ev, err := c.api.Get(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq < c.lookupApplied {
		return
	}
	c.lookupApplied = seq

	if err != nil {
		logFailure(ctx, downstream.OpGet, err)
		c.lookup = nil
		c.message = domain.NewMessage(msgNotFound)
		return
	}
	c.lookup = &ev
	c.message = domain.Message{}
}

func (c *Controller) SelectForEdit(record domain.Event) {
	if !c.active() {
		return
	}
	c.form.BeginEdit(record)
	c.setMessage(msgEditing(record.ID))
}

// Select picks a row of the current list by id and starts editing it.
func (c *Controller) Select(id string) bool {
	id = strings.TrimSpace(id)

	c.mu.Lock()
	var (
		found domain.Event
		ok    bool
	)
	for _, e := range c.events {
		if e.ID == id {
			found, ok = e, true
			break
		}
	}
	c.mu.Unlock()

	if !ok {
		c.setMessage(msgNotFound)
		return false
	}
	c.SelectForEdit(found)
	return true
}

// Submit gates on form validation and dispatches by form mode.
func (c *Controller) Submit(ctx context.Context) {
	if !c.active() {
		return
	}
	draft, err := c.form.Validate()
	if err != nil {
		c.setValidationMessage(err)
		return
	}
	if c.form.Mode() == form.ModeEdit {
		c.Update(ctx, draft)
		return
	}
	c.Create(ctx, draft)
}

func (c *Controller) Cancel() {
	if !c.active() {
		return
	}
	c.form.Reset()
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	v := View{
		Events:  append([]domain.Event(nil), c.events...),
		Message: c.message,
	}
	if c.lookup != nil {
		l := *c.lookup
		v.Lookup = &l
	}
	c.mu.Unlock()

	if v.Events == nil {
		v.Events = []domain.Event{}
	}
	v.Draft = c.form.Draft()
	v.Mode = c.form.Mode()
	return v
}

// Close detaches the controller; results that arrive afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Controller) active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *Controller) setMessage(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.message = domain.NewMessage(text)
}

func (c *Controller) setValidationMessage(err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.setMessage(msgMissingField(ve.Field))
		return
	}
	c.setMessage(err.Error())
}

func logFailure(ctx context.Context, op string, err error) {
	logger.Ctx(ctx).Warn().
		Err(err).
		Str("op", op).
		Str("kind", string(downstream.KindOf(err))).
		Msg("eventapi_call_failed")
}
