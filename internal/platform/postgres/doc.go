// Package postgres provides the PostgreSQL implementation of
// store.HistoryStore together with the embedded goose migrations that create
// its schema. Connections go through database/sql using the pgx stdlib driver.
package postgres
