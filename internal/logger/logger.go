package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fhuszti/movies-ms-go/internal/api_context"
)

const serviceName = "movies-ms"

var std *slog.Logger

// subjectHandler appends the authenticated token subject (or "system") to every record.
type subjectHandler struct{ h slog.Handler }

func (s subjectHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return s.h.Enabled(ctx, lvl)
}

func (s subjectHandler) Handle(ctx context.Context, r slog.Record) error {
	uid := "system"
	if sub, ok := api_context.AuthUserIDFromContext(ctx); ok {
		uid = sub
	}
	if title, ok := api_context.TitleFromContext(ctx); ok {
		r.AddAttrs(slog.String("title", title))
	}
	r.AddAttrs(slog.String("uid", uid))
	return s.h.Handle(ctx, r)
}

func (s subjectHandler) WithAttrs(a []slog.Attr) slog.Handler {
	return subjectHandler{h: s.h.WithAttrs(a)}
}

func (s subjectHandler) WithGroup(n string) slog.Handler {
	return subjectHandler{h: s.h.WithGroup(n)}
}

// Options drives the handler built by Setup.
type Options struct {
	Format    string // json|text
	Level     string // debug|info|warn|error
	AddSource bool
}

// OptionsFromEnv reads LOG_FORMAT (default json), LOG_LEVEL (default info)
// and LOG_SOURCE (default false).
func OptionsFromEnv() Options {
	return Options{
		Format:    getEnv("LOG_FORMAT", "json"),
		Level:     getEnv("LOG_LEVEL", "info"),
		AddSource: parseBool(getEnv("LOG_SOURCE", "false")),
	}
}

// Init installs the process-wide logger from the environment, writing to stdout.
func Init() {
	Setup(os.Stdout, OptionsFromEnv())
}

// Setup installs the process-wide logger writing to w.
func Setup(w io.Writer, o Options) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(o.Level), AddSource: o.AddSource}

	var base slog.Handler
	if strings.EqualFold(o.Format, "text") {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	std = slog.New(subjectHandler{h: base}).With("svc", serviceName)
	slog.SetDefault(std)

	// legacy log.Printf callers (no ctx, so no uid)
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(base, slog.LevelInfo).Writer())

	return std
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func active() *slog.Logger {
	if std != nil {
		return std
	}
	return slog.Default()
}

func Info(ctx context.Context, msg string, attrs ...any) {
	active().InfoContext(ctx, msg, attrs...)
}
func Warn(ctx context.Context, msg string, attrs ...any) {
	active().WarnContext(ctx, msg, attrs...)
}
func Error(ctx context.Context, msg string, attrs ...any) {
	active().ErrorContext(ctx, msg, attrs...)
}
func Debug(ctx context.Context, msg string, attrs ...any) {
	active().DebugContext(ctx, msg, attrs...)
}

func Infof(ctx context.Context, format string, a ...any) {
	active().InfoContext(ctx, fmt.Sprintf(format, a...))
}
func Warnf(ctx context.Context, format string, a ...any) {
	active().WarnContext(ctx, fmt.Sprintf(format, a...))
}
func Errorf(ctx context.Context, format string, a ...any) {
	active().ErrorContext(ctx, fmt.Sprintf(format, a...))
}
func Debugf(ctx context.Context, format string, a ...any) {
	active().DebugContext(ctx, fmt.Sprintf(format, a...))
}
