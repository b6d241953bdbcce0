package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
)

// ServiceName is attached to every record written by a MetadataHandler
// created through Setup.
const ServiceName = "promptgen-api"

// MetadataHandler is a slog.Handler that adds a fixed set of attributes to
// every record before delegating to a JSON handler.
type MetadataHandler struct {
	handler slog.Handler
}

// NewMetadataHandler creates a JSON handler writing to out that attaches
// metadata to each record. Keys are added in sorted order.
func NewMetadataHandler(out io.Writer, opts *slog.HandlerOptions, metadata map[string]string) *MetadataHandler {
	var handlerOpts slog.HandlerOptions
	if opts != nil {
		handlerOpts = *opts
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, metadata[k]))
	}

	return &MetadataHandler{
		handler: slog.NewJSONHandler(out, &handlerOpts).WithAttrs(attrs),
	}
}

// Enabled implements the slog.Handler interface.
func (h *MetadataHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *MetadataHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MetadataHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup implements the slog.Handler interface.
func (h *MetadataHandler) WithGroup(name string) slog.Handler {
	return &MetadataHandler{handler: h.handler.WithGroup(name)}
}

// Handle implements the slog.Handler interface.
func (h *MetadataHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.handler.Handle(ctx, record)
}

// ServiceMetadata returns the service name plus deployment details found in
// the environment (CI run identifiers, host name).
func ServiceMetadata() map[string]string {
	metadata := map[string]string{"service": ServiceName}

	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		metadata["environment"] = "ci"
	}
	if v := os.Getenv("GITHUB_RUN_ID"); v != "" {
		metadata["ci_run_id"] = v
	}
	if v := os.Getenv("GITHUB_SHA"); v != "" {
		metadata["ci_commit"] = v
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		metadata["host"] = host
	}

	return metadata
}
