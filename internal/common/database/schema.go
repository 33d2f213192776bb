package database

// Schema is applied at startup. email and application_id carry unique indexes;
// the email index is what actually rejects concurrent duplicate submissions.
const Schema = `
CREATE TABLE IF NOT EXISTS applications (
	id               BIGSERIAL PRIMARY KEY,
	application_id   TEXT NOT NULL,
	full_name        TEXT NOT NULL,
	email            TEXT NOT NULL,
	phone            TEXT NOT NULL,
	university       TEXT NOT NULL,
	degree           TEXT NOT NULL,
	major            TEXT NOT NULL,
	graduation_year  INTEGER NOT NULL,
	cgpa             DOUBLE PRECISION NOT NULL,
	preferred_domain TEXT NOT NULL,
	skills           TEXT[] NOT NULL CHECK (cardinality(skills) > 0),
	resume_link      TEXT NOT NULL DEFAULT '',
	github_profile   TEXT NOT NULL DEFAULT '',
	linkedin_profile TEXT NOT NULL DEFAULT '',
	cover_letter     TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'pending'
	                 CHECK (status IN ('pending', 'reviewed', 'accepted', 'rejected')),
	submitted_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS applications_email_key ON applications (email);
CREATE UNIQUE INDEX IF NOT EXISTS applications_application_id_key ON applications (application_id);
CREATE INDEX IF NOT EXISTS applications_status_idx ON applications (status);
CREATE INDEX IF NOT EXISTS applications_submitted_at_idx ON applications (submitted_at DESC);

CREATE TABLE IF NOT EXISTS sequence_counters (
	name       TEXT PRIMARY KEY,
	value      BIGINT NOT NULL DEFAULT 0 CHECK (value >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Unique index names, used to tell which constraint an insert violated.
const (
	ApplicationsEmailKey         = "applications_email_key"
	ApplicationsApplicationIDKey = "applications_application_id_key"
)
