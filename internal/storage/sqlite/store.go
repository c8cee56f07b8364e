// Package sqlite provides a SQLite implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/jwulff/bgviz-go/internal/storage"
	"github.com/oklog/ulid/v2"

	_ "modernc.org/sqlite"
)

// Store is a SQLite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// NewMemoryStore creates an in-memory SQLite store.
func NewMemoryStore() (*Store, error) {
	return newStore(":memory:")
}

// NewFileStore creates a file-based SQLite store.
func NewFileStore(path string) (*Store, error) {
	return newStore(path)
}

func newStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// newID returns a ULID ordered by the datum's own timestamp. Times before
// the Unix epoch cannot be encoded and return an error.
func newID(t time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(t), ulid.DefaultEntropy())
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Data methods

// SaveData stores data points for a patient. Every point needs a time;
// points without an ID are given one. The classification tag is not stored;
// it is derived on every render.
func (s *Store) SaveData(ctx context.Context, patientID string, data []bloodsugar.Datum) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO data (id, patient_id, type, value, units, time, device_id, annotations, bolus)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range data {
		if d.Time.IsZero() {
			return fmt.Errorf("datum %d (%q): time is required", i, d.ID)
		}
		if bloodsugar.IsBG(d.Type) && !d.Units.Valid() {
			return fmt.Errorf("datum %d (%q): bg data needs mg/dL or mmol/L units", i, d.ID)
		}
		units, err := d.Units.MarshalText()
		if err != nil {
			return fmt.Errorf("datum %d (%q): %w", i, d.ID, err)
		}
		id := d.ID
		if id == "" {
			if id, err = newID(d.Time); err != nil {
				return fmt.Errorf("datum %d: cannot generate id for time %s: %w", i, d.Time.Format(time.RFC3339), err)
			}
		}

		annotations := d.Annotations
		if annotations == nil {
			annotations = []bloodsugar.Annotation{}
		}
		annotationsJSON, err := json.Marshal(annotations)
		if err != nil {
			return fmt.Errorf("failed to marshal annotations: %w", err)
		}

		var bolusJSON sql.NullString
		if d.Bolus != nil {
			b, err := json.Marshal(d.Bolus)
			if err != nil {
				return fmt.Errorf("failed to marshal bolus: %w", err)
			}
			bolusJSON = sql.NullString{String: string(b), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, id, patientID, d.Type, d.Value, string(units),
			d.Time.UTC(), d.DeviceID, string(annotationsJSON), bolusJSON); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// QueryData returns a patient's data points with since <= time <= until,
// oldest first.
func (s *Store) QueryData(ctx context.Context, patientID string, since, until time.Time) ([]bloodsugar.Datum, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, value, units, time, device_id, annotations, bolus FROM data
		WHERE patient_id = ? AND time >= ? AND time <= ?
		ORDER BY time ASC, id ASC
	`, patientID, since.UTC(), until.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var data []bloodsugar.Datum
	for rows.Next() {
		var (
			d               bloodsugar.Datum
			units           string
			annotationsJSON string
			bolusJSON       sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Type, &d.Value, &units, &d.Time, &d.DeviceID, &annotationsJSON, &bolusJSON); err != nil {
			return nil, err
		}
		if err := d.Units.UnmarshalText([]byte(units)); err != nil {
			return nil, fmt.Errorf("datum %s: %w", d.ID, err)
		}
		if err := json.Unmarshal([]byte(annotationsJSON), &d.Annotations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal annotations: %w", err)
		}
		if len(d.Annotations) == 0 {
			d.Annotations = nil
		}
		if bolusJSON.Valid {
			d.Bolus = &bloodsugar.Datum{}
			if err := json.Unmarshal([]byte(bolusJSON.String), d.Bolus); err != nil {
				return nil, fmt.Errorf("failed to unmarshal bolus: %w", err)
			}
		}
		data = append(data, d)
	}
	return data, rows.Err()
}

func (s *Store) DeleteOldData(ctx context.Context, patientID string, before time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM data WHERE patient_id = ? AND time < ?
	`, patientID, before.UTC())
	return err
}

// Prefs methods

// SavePrefs stores a patient's preferences after validating them.
func (s *Store) SavePrefs(ctx context.Context, patientID string, prefs bloodsugar.Prefs) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	b := prefs.Bounds
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO prefs (patient_id, units, very_low_threshold, target_lower_bound,
			target_upper_bound, very_high_threshold, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, patientID, prefs.Units.String(), b.VeryLowThreshold, b.TargetLowerBound,
		b.TargetUpperBound, b.VeryHighThreshold, time.Now().UTC())
	return err
}

// GetPrefs loads a patient's preferences. Stored rows are validated again,
// so a corrupted row surfaces as a configuration error.
func (s *Store) GetPrefs(ctx context.Context, patientID string) (bloodsugar.Prefs, error) {
	var (
		units string
		b     bloodsugar.Bounds
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT units, very_low_threshold, target_lower_bound, target_upper_bound, very_high_threshold
		FROM prefs WHERE patient_id = ?
	`, patientID).Scan(&units, &b.VeryLowThreshold, &b.TargetLowerBound, &b.TargetUpperBound, &b.VeryHighThreshold)

	if err == sql.ErrNoRows {
		return bloodsugar.Prefs{}, storage.ErrNotFound{Resource: "prefs", ID: patientID}
	}
	if err != nil {
		return bloodsugar.Prefs{}, err
	}

	u, err := bloodsugar.ParseUnits(units)
	if err != nil {
		return bloodsugar.Prefs{}, &bloodsugar.ConfigurationError{Field: "bgUnits", Reason: err.Error()}
	}
	return bloodsugar.NewPrefs(u, b)
}

// Verify interface compliance
var _ storage.Store = (*Store)(nil)
