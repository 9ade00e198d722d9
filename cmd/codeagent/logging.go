package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spetersoncode/codeagent/event"
)

// setupLogger installs a text logger on stderr as the default.
func setupLogger(cfg *Config, verbose bool) *slog.Logger {
	level, _ := parseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// logEvents logs run events at debug level until ch is closed.
func logEvents(ctx context.Context, logger *slog.Logger, ch <-chan event.Event) {
	for e := range ch {
		attrs := []slog.Attr{slog.String("run_id", e.RunID)}
		switch e.Type {
		case event.ToolCallStart:
			attrs = append(attrs, slog.String("tool", e.ToolName))
		case event.ToolCallResult:
			attrs = append(attrs, slog.String("tool", e.ToolName), slog.Duration("duration", e.Duration))
			if e.Error != nil {
				attrs = append(attrs, slog.Any("error", e.Error))
			}
		case event.GenerationRetry:
			attrs = append(attrs, slog.Int("attempt", e.Attempt), slog.Duration("delay", e.Delay))
		case event.RunEnd, event.RunError:
			attrs = append(attrs, slog.Duration("duration", e.Duration))
		}
		logger.LogAttrs(ctx, slog.LevelDebug, string(e.Type), attrs...)
	}
}
