package notify

import (
	"context"
	"log/slog"
)

// LogSink stands in for a disabled sink. It only records what would have been sent.
type LogSink struct {
	name string
}

func NewLogSink(name string) *LogSink {
	return &LogSink{name: name}
}

func (l *LogSink) Name() string { return l.name + "_log" }

func (l *LogSink) Send(_ context.Context, text string) error {
	slog.Info("message sink disabled, message not sent", "sink", l.name, "text", text)
	return nil
}

func (l *LogSink) AppendRow(_ context.Context, row []string) error {
	slog.Info("row sink disabled, row not appended", "sink", l.name, "row", row)
	return nil
}
