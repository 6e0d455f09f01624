//go:build cgo

// ABOUTME: Registers the cgo SQLite driver when cgo is available
// ABOUTME: Selected with Options.Driver = DriverCGO ("sqlite3")

package store

import (
	_ "github.com/mattn/go-sqlite3"
)
