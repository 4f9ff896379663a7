package utils

import (
	"context"
	"log/slog"
)

// TeeLogHandler duplicates every record to a set of slog handlers, typically
// a colored terminal handler and a plain-text log file handler.
type TeeLogHandler struct {
	handlers []slog.Handler
}

func NewTeeLogHandler(handlers ...slog.Handler) *TeeLogHandler {
	return &TeeLogHandler{handlers: handlers}
}

func (h *TeeLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *TeeLogHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if e := handler.Handle(ctx, r.Clone()); e != nil {
				err = e
			}
		}
	}
	return err
}

func (h *TeeLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return NewTeeLogHandler(handlers...)
}

func (h *TeeLogHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return NewTeeLogHandler(handlers...)
}
