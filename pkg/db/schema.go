package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the database schema.
	// All application state lives in a single key-value table: every value is
	// a JSON document written as a whole (chat histories, mood entries, user
	// context, configuration overrides).
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS solace_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS solace_kv (
    key VARCHAR(256) PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
