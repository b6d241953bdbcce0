// Package store defines the persistence boundary for prompt history. The
// HistoryStore interface keeps the service and HTTP layers independent of
// whether history lives in process memory or in PostgreSQL.
package store
