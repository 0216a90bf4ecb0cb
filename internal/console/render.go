package console

import (
	"fmt"
	"io"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/collection"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/form"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Renderer draws the form, the lookup widget and the event table. Columns
// follow domain.Fields.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (r *Renderer) Form(draft domain.Event, mode form.Mode) {
	t := r.newTable()
	title := "New event"
	if mode == form.ModeEdit {
		title = fmt.Sprintf("Edit event %s", draft.ID)
	}
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, f := range domain.Fields {
		v := draft.Get(f)
		if v == "" {
			v = text.FgHiBlack.Sprint("(empty)")
		}
		t.AppendRow(table.Row{text.FgHiCyan.Sprint(string(f)), v})
	}
	fmt.Fprintln(r.out, t.Render())
}

func (r *Renderer) Lookup(ev *domain.Event) {
	if ev == nil {
		fmt.Fprintln(r.out, text.FgYellow.Sprint("No event looked up"))
		return
	}
	t := r.newTable()
	t.SetTitle(fmt.Sprintf("Event %s", ev.ID))
	for _, f := range domain.Fields {
		t.AppendRow(table.Row{text.FgHiCyan.Sprint(string(f)), ev.Get(f)})
	}
	fmt.Fprintln(r.out, t.Render())
}

func (r *Renderer) Table(events []domain.Event) {
	if len(events) == 0 {
		fmt.Fprintln(r.out, text.FgYellow.Sprint("No events found"))
		return
	}

	t := r.newTable()
	header := make(table.Row, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		header = append(header, string(f))
	}
	t.AppendHeader(header)

	for _, e := range events {
		row := make(table.Row, 0, len(domain.Fields))
		for _, f := range domain.Fields {
			row = append(row, e.Get(f))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"Total", len(events)})
	fmt.Fprintln(r.out, t.Render())
}

func (r *Renderer) Message(m domain.Message) {
	switch m.Severity() {
	case domain.SeverityError:
		fmt.Fprintln(r.out, text.FgRed.Sprint(m.Text))
	case domain.SeveritySuccess:
		fmt.Fprintln(r.out, text.FgGreen.Sprint(m.Text))
	}
}

func (r *Renderer) View(v collection.View) {
	r.Form(v.Draft, v.Mode)
	r.Lookup(v.Lookup)
	r.Table(v.Events)
	r.Message(v.Message)
}
