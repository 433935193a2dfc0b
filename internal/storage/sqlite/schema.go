// ABOUTME: SQLite schema for the knowledge cache and the document corpus
// ABOUTME: Creates all tables and indexes for local storage
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Learned facts (the knowledge cache)
CREATE TABLE IF NOT EXISTS facts (
    id TEXT PRIMARY KEY,
    fact_type TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    context TEXT,
    source_question TEXT,
    relevance_score REAL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    dedup_key TEXT NOT NULL UNIQUE
);

-- Policy document chunks with their embedding vectors
CREATE TABLE IF NOT EXISTS document_chunks (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    page INTEGER DEFAULT 0,
    text TEXT NOT NULL,
    vector BLOB,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_facts_type ON facts(fact_type);
CREATE INDEX IF NOT EXISTS idx_facts_created ON facts(created_at);
CREATE INDEX IF NOT EXISTS idx_chunks_source ON document_chunks(source);
`
