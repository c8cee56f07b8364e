package sqlite

// schema contains the database schema DDL.
const schema = `
-- Imported data points
CREATE TABLE IF NOT EXISTS data (
    id TEXT PRIMARY KEY,
    patient_id TEXT NOT NULL,
    type TEXT NOT NULL,
    value REAL NOT NULL,
    units TEXT NOT NULL,
    time DATETIME NOT NULL,
    device_id TEXT NOT NULL DEFAULT '',
    annotations TEXT NOT NULL DEFAULT '[]',
    bolus TEXT
);
CREATE INDEX IF NOT EXISTS idx_data_patient_time ON data(patient_id, time);

-- Blood glucose preferences
CREATE TABLE IF NOT EXISTS prefs (
    patient_id TEXT PRIMARY KEY,
    units TEXT NOT NULL,
    very_low_threshold REAL NOT NULL,
    target_lower_bound REAL NOT NULL,
    target_upper_bound REAL NOT NULL,
    very_high_threshold REAL NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
