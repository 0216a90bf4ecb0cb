package form

import (
	"sync"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Controller owns the single editable draft. It never touches the network.
type Controller struct {
	mu    sync.RWMutex
	draft domain.Event
	mode  Mode
}

func New() *Controller {
	return &Controller{mode: ModeCreate}
}

// SetField ignores fields outside domain.Fields.
func (c *Controller) SetField(f domain.Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Set(f, value)
}

func (c *Controller) Validate() (domain.Event, error) {
	c.mu.RLock()
	draft := c.draft
	c.mu.RUnlock()

	if err := draft.Validate(); err != nil {
		return domain.Event{}, err
	}
	return draft, nil
}

func (c *Controller) BeginEdit(source domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = source
	c.mode = ModeEdit
}

func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = domain.Event{}
	c.mode = ModeCreate
}

func (c *Controller) Draft() domain.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.draft
}

func (c *Controller) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}
