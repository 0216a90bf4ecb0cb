package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/form"
)

// REPL reads commands from the terminal and hands them to an Executor.
type REPL struct {
	exec *Executor
}

func NewREPL(exec *Executor) *REPL {
	return &REPL{exec: exec}
}

func (r *REPL) prompt() string {
	v := r.exec.collection.Snapshot()
	if v.Mode == form.ModeEdit {
		return fmt.Sprintf("events [edit %s] » ", v.Draft.ID)
	}
	return "events » "
}

func completer() *readline.PrefixCompleter {
	fieldItems := make([]readline.PrefixCompleterInterface, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		fieldItems = append(fieldItems, readline.PcItem(string(f)))
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(commandOrder))
	for _, name := range commandOrder {
		if name == "set" {
			items = append(items, readline.PcItem(name, fieldItems...))
			continue
		}
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

// Run loads the list once and then loops until exit, EOF or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            r.prompt(),
		HistoryFile:       filepath.Join(os.TempDir(), ".eventconsole_history"),
		AutoComplete:      completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(r.exec.out, text.FgHiCyan.Sprint("Event console. Type 'help' for commands, TAB to complete."))
	_ = r.exec.Execute(ctx, "list")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		rl.SetPrompt(r.prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := r.exec.Execute(ctx, input); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			fmt.Fprintln(r.exec.out, text.FgRed.Sprint(err.Error()))
		}
	}
}
