package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
)

func newListCmd(opts *rootOptions, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts, out)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.exec.Execute(cmd.Context(), "list"); err != nil {
				return err
			}
			return s.result()
		},
	}
}

func newGetCmd(opts *rootOptions, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Look up one event by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts, out)
			if err != nil {
				return err
			}
			defer s.close()

			s.collection.FetchByID(cmd.Context(), args[0])
			v := s.collection.Snapshot()
			s.render.Message(v.Message)
			if v.Lookup != nil {
				s.render.Lookup(v.Lookup)
			}
			return s.result()
		},
	}
}

func newDeleteCmd(opts *rootOptions, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts, out)
			if err != nil {
				return err
			}
			defer s.close()

			s.collection.Remove(cmd.Context(), args[0])
			s.render.Message(s.collection.Snapshot().Message)
			return s.result()
		},
	}
}

// eventFlags binds one string flag per field.
func eventFlags(cmd *cobra.Command) map[domain.Field]*string {
	vals := make(map[domain.Field]*string, len(domain.Fields))
	for _, f := range domain.Fields {
		vals[f] = cmd.Flags().String(string(f), "", "event "+string(f))
	}
	return vals
}

func toEvent(vals map[domain.Field]*string) domain.Event {
	var e domain.Event
	for f, v := range vals {
		e.Set(f, *v)
	}
	return e
}

func newAddCmd(opts *rootOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event from flags",
		Args:  cobra.NoArgs,
	}
	vals := eventFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context(), opts, out)
		if err != nil {
			return err
		}
		defer s.close()

		e := toEvent(vals)
		for _, f := range domain.Fields {
			s.form.SetField(f, e.Get(f))
		}
		s.collection.Submit(cmd.Context())
		s.render.Message(s.collection.Snapshot().Message)
		return s.result()
	}
	return cmd
}

func newUpdateCmd(opts *rootOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace an event's fields, matched by --id",
		Args:  cobra.NoArgs,
	}
	vals := eventFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context(), opts, out)
		if err != nil {
			return err
		}
		defer s.close()

		s.collection.SelectForEdit(toEvent(vals))
		s.collection.Submit(cmd.Context())
		s.render.Message(s.collection.Snapshot().Message)
		return s.result()
	}
	return cmd
}
