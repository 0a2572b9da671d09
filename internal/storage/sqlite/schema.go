// ABOUTME: SQLite schema for the question bank
// ABOUTME: One row per accepted question; options stored as a JSON array
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    topic TEXT NOT NULL,
    question TEXT NOT NULL,
    options TEXT NOT NULL,
    answer TEXT NOT NULL,
    explanation TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_questions_question ON questions(question);
CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic);
`
