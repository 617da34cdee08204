package sqlite

// schema holds the fixed table layout shared with the capture stage and
// the dashboard. The nine dev_ai_* destination tables plus the project
// and phase lookup tables must keep these exact names and columns.
const schema = `
CREATE TABLE IF NOT EXISTS dev_projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT,
	client_id TEXT,
	parent_id TEXT REFERENCES dev_projects(id),
	is_parent INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS dev_project_phases (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES dev_projects(id),
	name TEXT NOT NULL,
	phase_number INTEGER,
	status TEXT NOT NULL DEFAULT 'pending',
	UNIQUE (project_id, name)
);

CREATE TABLE IF NOT EXISTS dev_ai_todos (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	priority TEXT,
	bucket TEXT,
	project_id TEXT,
	client_id TEXT,
	phase_id TEXT,
	project_path TEXT,
	refined_at TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dev_ai_bugs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	severity TEXT,
	bucket TEXT,
	project_id TEXT,
	client_id TEXT,
	phase_id TEXT,
	project_path TEXT,
	refined_at TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dev_ai_knowledge (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	importance INTEGER,
	bucket TEXT,
	project_id TEXT,
	client_id TEXT,
	project_path TEXT,
	refined_at TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dev_ai_decisions (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	project_id TEXT,
	client_id TEXT,
	project_path TEXT,
	refined_at TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dev_ai_lessons (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	project_id TEXT,
	client_id TEXT,
	project_path TEXT,
	refined_at TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dev_ai_docs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	doc_type TEXT,
	project_id TEXT,
	client_id TEXT,
	project_path TEXT,
	refined_at TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dev_ai_conventions (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	convention_type TEXT,
	project_id TEXT,
	client_id TEXT,
	project_path TEXT,
	refined_at TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dev_ai_journal (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	entry_type TEXT,
	bucket TEXT,
	project_id TEXT,
	client_id TEXT,
	project_path TEXT,
	refined_at TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dev_ai_snippets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	content TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	project_id TEXT,
	client_id TEXT,
	project_path TEXT,
	refined_at TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_todos_status ON dev_ai_todos(status);
CREATE INDEX IF NOT EXISTS idx_bugs_status ON dev_ai_bugs(status);
CREATE INDEX IF NOT EXISTS idx_todos_phase ON dev_ai_todos(phase_id);
CREATE INDEX IF NOT EXISTS idx_phases_project ON dev_project_phases(project_id);
`
