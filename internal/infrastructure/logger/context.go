package logger

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey int

const (
	videoIDKey ctxKey = iota
	deliveryIDKey
)

func ContextWithVideoID(ctx context.Context, videoID string) context.Context {
	return context.WithValue(ctx, videoIDKey, videoID)
}

func ContextWithDeliveryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deliveryIDKey, id)
}

// FromContext decorates l with the identifiers carried by ctx.
func FromContext(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	c := l.With()
	if v, ok := ctx.Value(videoIDKey).(string); ok && v != "" {
		c = c.Str("video_id", SanitizeForLog(v))
	}
	if v, ok := ctx.Value(deliveryIDKey).(string); ok && v != "" {
		c = c.Str("delivery_id", v)
	}
	return c.Logger()
}
