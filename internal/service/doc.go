// Package service provides application-level services that sit between the
// HTTP handlers and the stores. HistoryService owns history key handling,
// the per-list cap, and category filtering.
package service
