// Package storage provides storage abstractions for imported patient data.
package storage

import (
	"context"
	"time"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
)

// Store is the interface for persistent storage.
type Store interface {
	// Data points
	SaveData(ctx context.Context, patientID string, data []bloodsugar.Datum) error
	QueryData(ctx context.Context, patientID string, since, until time.Time) ([]bloodsugar.Datum, error)
	DeleteOldData(ctx context.Context, patientID string, before time.Time) error

	// Blood glucose preferences
	SavePrefs(ctx context.Context, patientID string, prefs bloodsugar.Prefs) error
	GetPrefs(ctx context.Context, patientID string) (bloodsugar.Prefs, error)

	// Lifecycle
	Close() error
}

// ErrNotFound is returned when a record is not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	_, ok := err.(ErrNotFound)
	return ok
}
