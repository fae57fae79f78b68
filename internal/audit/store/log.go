package store

import (
	"context"

	"github.com/serroba/shortlink/internal/audit"
	"go.uber.org/zap"
)

// Log is an audit.Store that writes each event to a structured log.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a new log-backed audit store.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) SaveLinkCreated(_ context.Context, event *audit.LinkCreatedEvent) error {
	l.logger.Info("link created",
		zap.String("shortId", event.ShortID),
		zap.String("longUrl", event.LongURL),
		zap.String("strategy", event.Strategy),
		zap.Bool("custom", event.Custom),
		zap.Time("createdAt", event.CreatedAt),
		zap.String("clientIp", event.ClientIP),
		zap.String("userAgent", event.UserAgent),
	)

	return nil
}

// Compile-time check.
var _ audit.Store = (*Log)(nil)
