package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/collection"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/config"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/console"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/downstream"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/form"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/logger"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/tracing"
)

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// failedError means the operation ran and its error message was already
// rendered.
type failedError struct {
	msg string
}

func (e *failedError) Error() string { return e.msg }

type rootOptions struct {
	baseURL string
	quiet   bool
}

// session is one wired form + collection pair talking to the configured API.
type session struct {
	form       *form.Controller
	collection *collection.Controller
	exec       *console.Executor
	render     *console.Renderer
	tracer     *tracing.Provider
}

func (s *session) close() {
	s.collection.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.tracer.Shutdown(ctx)
}

// result turns an error-severity message into a failedError.
func (s *session) result() error {
	m := s.collection.Snapshot().Message
	if m.Severity() == domain.SeverityError {
		return &failedError{msg: m.Text}
	}
	return nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "eventconsole",
		Short: "Manage events over the event API",
		Long: `eventconsole lists, creates, edits, looks up and deletes events
held by an event API server. Without a subcommand it starts an interactive
console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts, out)
			if err != nil {
				return err
			}
			defer s.close()
			return console.NewREPL(s.exec).Run(cmd.Context())
		},
	}
	cmd.SetOut(out)
	cmd.SetVersionTemplate(`{{printf "eventconsole version %s\n" .Version}}`)

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "event API base URL (overrides EVENTAPI_BASE_URL)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "disable progress spinners")

	cmd.AddCommand(
		newListCmd(opts, out),
		newGetCmd(opts, out),
		newDeleteCmd(opts, out),
		newAddCmd(opts, out),
		newUpdateCmd(opts, out),
	)
	return cmd
}

func newSession(ctx context.Context, opts *rootOptions, out io.Writer) (*session, error) {
	cfg, err := config.LoadConsole()
	if err != nil {
		return nil, err
	}
	if opts.baseURL != "" {
		if err := cfg.OverrideBaseURL(opts.baseURL); err != nil {
			return nil, err
		}
	}
	logger.Configure(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "eventconsole",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init: %w", err)
	}

	client := downstream.NewClient(downstream.ClientConfig{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Token:        cfg.Token,
	})
	api := downstream.NewEventClient(cfg.BaseURL, client)

	f := form.New()
	c := collection.New(api, f)
	return &session{
		form:       f,
		collection: c,
		exec:       console.NewExecutor(f, c, out, console.Options{Quiet: opts.quiet}),
		render:     console.NewRenderer(out),
		tracer:     tp,
	}, nil
}
