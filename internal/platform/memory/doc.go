// Package memory provides an in-process implementation of store.HistoryStore.
// Contents are lost when the process exits.
package memory
