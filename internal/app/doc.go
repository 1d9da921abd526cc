// Package app owns the application lifecycle: validated configuration,
// logger construction and the linear dump pipeline (login, collection
// lookup, enumerate, fetch-and-write).
package app
