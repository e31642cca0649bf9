package db

// SchemaSQL is the complete schema for fresh stagetrack installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(): if repository code references a column that
// doesn't exist here, tests fail immediately with "no such column" instead of
// drifting from production.
const SchemaSQL = `
-- Stage templates (the ordered stage catalog, versioned)
CREATE TABLE IF NOT EXISTS stage_templates (
	template_version TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	sequence INTEGER NOT NULL,
	optional INTEGER NOT NULL DEFAULT 0,
	requires_fact INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (template_version, code),
	UNIQUE (template_version, sequence)
);

-- Projects
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	template_version TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Project stages (one row per project per catalog stage, provisioned at
-- project creation and never deleted)
CREATE TABLE IF NOT EXISTS project_stages (
	project_id TEXT NOT NULL,
	stage_code TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('not_started', 'in_progress', 'completed', 'skipped')) DEFAULT 'not_started',
	actual_start DATE,
	completed_on DATE,
	auto_completed INTEGER NOT NULL DEFAULT 0,
	auto_completed_from TEXT,
	requires_backfill INTEGER NOT NULL DEFAULT 0,
	version INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (project_id, stage_code),
	FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Stage change requests (the approval workflow)
CREATE TABLE IF NOT EXISTS stage_change_requests (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	stage_code TEXT NOT NULL,
	requested_status TEXT NOT NULL CHECK(requested_status IN ('not_started', 'in_progress', 'completed', 'skipped')),
	requested_date DATE,
	note TEXT,
	requested_by TEXT NOT NULL,
	requested_on DATETIME NOT NULL,
	decision_status TEXT NOT NULL CHECK(decision_status IN ('pending', 'approved', 'rejected')) DEFAULT 'pending',
	decision_note TEXT,
	decided_by TEXT,
	decided_on DATETIME,
	FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Stage change log (append-only audit trail)
CREATE TABLE IF NOT EXISTS stage_change_logs (
	id TEXT PRIMARY KEY,
	request_id TEXT,
	project_id TEXT NOT NULL,
	stage_code TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('requested', 'approved', 'rejected', 'applied')),
	from_status TEXT,
	to_status TEXT,
	from_actual_start DATE,
	to_actual_start DATE,
	from_completed_on DATE,
	to_completed_on DATE,
	note TEXT,
	actor_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Stage facts (supporting data gating stage completion)
CREATE TABLE IF NOT EXISTS stage_facts (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	stage_code TEXT NOT NULL,
	summary TEXT NOT NULL,
	recorded_by TEXT NOT NULL,
	recorded_at DATETIME NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE INDEX IF NOT EXISTS idx_project_stages_project ON project_stages(project_id);
CREATE INDEX IF NOT EXISTS idx_change_requests_project ON stage_change_requests(project_id, stage_code);
CREATE INDEX IF NOT EXISTS idx_change_requests_status ON stage_change_requests(decision_status);
CREATE INDEX IF NOT EXISTS idx_change_logs_project ON stage_change_logs(project_id);
CREATE INDEX IF NOT EXISTS idx_change_logs_request ON stage_change_logs(request_id);
CREATE INDEX IF NOT EXISTS idx_stage_facts_project ON stage_facts(project_id, stage_code);
`

// InitSchema creates the schema and seeds the default stage template.
func InitSchema() error {
	database, err := GetDB()
	if err != nil {
		return err
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return err
	}

	return SeedStageTemplates(database)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
