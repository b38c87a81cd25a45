// Package history keeps an optional local log of delivery outcomes in SQLite
// so the CLI can show what was sent, when, and what the API answered.
package history
