// Package repository implements all database queries for the dashboard.
// It uses pgx directly (no ORM); this package owns every piece of SQL.
package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDateConflict is returned when a calendar date cannot be claimed for a
// booking because it is no longer available.
var ErrDateConflict = errors.New("date is not available")
