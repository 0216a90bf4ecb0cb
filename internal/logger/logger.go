package logger

import (
	"context"
	"io"
	"os"
	"time"

	appctx "github.com/baechuer/real-time-ressys/services/event-console/internal/pkg/context"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

var Log = zerolog.Nop()

func Init() {
	InitWithWriter(os.Stderr)
}

func InitWithWriter(w io.Writer) {
	Configure(w, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure sets the global logger. level defaults to info and format
// ("json" or "console") to console.
func Configure(w io.Writer, logLevel, format string) {
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if format == "" {
		format = "console"
	}

	var l zerolog.Logger
	if format == "json" {
		l = zerolog.New(w).With().Timestamp().Logger().Level(level)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger().Level(level)
	}

	Log = l
	zlog.Logger = l
}

// Ctx returns a logger with request_id attached if the context carries one.
func Ctx(ctx context.Context) *zerolog.Logger {
	reqID := appctx.GetRequestID(ctx)
	if reqID != "" {
		l := Log.With().Str("request_id", reqID).Logger()
		return &l
	}
	return &Log
}
