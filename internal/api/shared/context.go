package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ContextKey namespaces values stored on request contexts by this package.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDHeader carries the trace ID back to the client.
	TraceIDHeader = "X-Trace-ID"

	// TraceIDLength is the number of bytes in a trace ID (32 hex characters).
	TraceIDLength = 16
)

var fallbackCounter atomic.Uint32

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, generateTraceID())
}

// WithTraceID stores traceID on the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID returns a random 32-character hex string. When the random
// source fails it falls back to a time-based ID rather than a static value.
func generateTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		slog.Error("failed to generate random trace ID",
			slog.String("error", err.Error()),
			slog.String("fallback", "time-based generation"))
		return generateFallbackTraceID()
	}
	return hex.EncodeToString(id[:])
}

// generateFallbackTraceID builds an ID from the wall clock and a process-wide
// counter so IDs generated in the same nanosecond still differ.
func generateFallbackTraceID() string {
	b := make([]byte, TraceIDLength)
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], fallbackCounter.Add(1))
	binary.BigEndian.PutUint32(b[12:16], uint32(time.Now().Unix()))
	return hex.EncodeToString(b)
}
