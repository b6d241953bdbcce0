// Package mocks holds hand-written test doubles shared across packages:
// MockGateway for generation.Gateway and MockHistoryStore for
// store.HistoryStore. Each records its calls and delegates to an optional
// function field.
package mocks
