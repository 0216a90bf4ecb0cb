package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/collection"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/form"
)

// ErrExit is returned by Execute for the exit command.
var ErrExit = errors.New("exit")

const commandTimeout = 30 * time.Second

type Options struct {
	Quiet bool
}

// Executor maps console commands onto the two controllers.
type Executor struct {
	form       *form.Controller
	collection *collection.Controller
	render     *Renderer
	out        io.Writer
	opts       Options
}

func NewExecutor(f *form.Controller, c *collection.Controller, out io.Writer, opts Options) *Executor {
	return &Executor{
		form:       f,
		collection: c,
		render:     NewRenderer(out),
		out:        out,
		opts:       opts,
	}
}

type command struct {
	usage string
	help  string
}

var commands = map[string]command{
	"list":   {usage: "list", help: "reload and show all events"},
	"show":   {usage: "show", help: "show the form, the lookup and the table"},
	"set":    {usage: "set <field> <value>", help: "change one form field"},
	"submit": {usage: "submit", help: "add the draft, or save it when editing"},
	"reset":  {usage: "reset", help: "clear the form and leave edit mode"},
	"edit":   {usage: "edit <id>", help: "load a listed event into the form"},
	"delete": {usage: "delete <id>", help: "delete an event"},
	"get":    {usage: "get <id>", help: "look up one event"},
	"help":   {usage: "help", help: "show this help"},
	"exit":   {usage: "exit", help: "leave the console"},
}

var commandOrder = []string{"list", "show", "set", "submit", "reset", "edit", "delete", "get", "help", "exit"}

var aliases = map[string]string{
	"refresh": "list",
	"cancel":  "reset",
	"rm":      "delete",
	"quit":    "exit",
}

func (e *Executor) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	if a, ok := aliases[name]; ok {
		name = a
	}
	args := fields[1:]

	switch name {
	case "help":
		e.printHelp()
	case "exit":
		return ErrExit
	case "list":
		e.run(ctx, "Loading events...", e.collection.RefreshAll)
		v := e.collection.Snapshot()
		e.render.Table(v.Events)
		e.render.Message(v.Message)
	case "show":
		e.render.View(e.collection.Snapshot())
	case "set":
		return e.set(line, args)
	case "submit":
		e.run(ctx, "Saving event...", e.collection.Submit)
		e.afterMutation()
	case "reset":
		e.collection.Cancel()
		v := e.collection.Snapshot()
		e.render.Form(v.Draft, v.Mode)
	case "edit":
		if len(args) != 1 {
			return usageError("edit")
		}
		e.collection.Select(args[0])
		v := e.collection.Snapshot()
		e.render.Message(v.Message)
		e.render.Form(v.Draft, v.Mode)
	case "delete":
		if len(args) != 1 {
			return usageError("delete")
		}
		e.run(ctx, "Deleting event...", func(ctx context.Context) { e.collection.Remove(ctx, args[0]) })
		e.afterMutation()
	case "get":
		id := strings.Join(args, " ")
		e.run(ctx, "Looking up event...", func(ctx context.Context) { e.collection.FetchByID(ctx, id) })
		v := e.collection.Snapshot()
		e.render.Message(v.Message)
		e.render.Lookup(v.Lookup)
	default:
		return fmt.Errorf("unknown command %q, type 'help' for a list", fields[0])
	}
	return nil
}

func (e *Executor) set(line string, args []string) error {
	if len(args) < 1 {
		return usageError("set")
	}
	f, ok := domain.ParseField(args[0])
	if !ok {
		return fmt.Errorf("unknown field %q (fields: %s)", args[0], fieldList())
	}
	e.form.SetField(f, valueAfterField(line))
	v := e.collection.Snapshot()
	e.render.Form(v.Draft, v.Mode)
	return nil
}

// valueAfterField keeps the value's inner spacing: "set name  Big  Day"
// stores "Big  Day".
func valueAfterField(line string) string {
	rest := strings.TrimSpace(line)
	for i := 0; i < 2; i++ {
		idx := strings.IndexFunc(rest, isSpace)
		if idx < 0 {
			return ""
		}
		rest = strings.TrimLeftFunc(rest[idx:], isSpace)
	}
	return rest
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

func (e *Executor) afterMutation() {
	v := e.collection.Snapshot()
	e.render.Message(v.Message)
	e.render.Table(v.Events)
}

func (e *Executor) run(ctx context.Context, label string, op func(context.Context)) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if e.opts.Quiet {
		op(ctx)
		return
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(e.out))
	s.Suffix = " " + label
	s.Start()
	defer s.Stop()
	op(ctx)
}

func (e *Executor) printHelp() {
	fmt.Fprintln(e.out, text.FgHiCyan.Sprint("Commands:"))
	for _, name := range commandOrder {
		c := commands[name]
		fmt.Fprintf(e.out, "  %-22s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(e.out, "Fields: %s\n", fieldList())
}

func usageError(name string) error {
	return fmt.Errorf("usage: %s", commands[name].usage)
}

func fieldList() string {
	names := make([]string, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
