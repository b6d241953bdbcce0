// Package api exposes the prompt generation service over HTTP. Handlers
// decode and validate requests, call into the generation and history
// services, and map their errors onto status codes and client-safe
// messages.
package api
