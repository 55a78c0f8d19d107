package postgres

import (
	"context"
	"errors"
	"fmt"
)

const schemaVer = 1

const initQuery = `
CREATE TABLE migrations (
	schema_version integer NOT NULL
);

INSERT INTO migrations (schema_version) VALUES(1);

CREATE TABLE environment (
	id serial PRIMARY KEY,
	name text NOT NULL,
	CONSTRAINT environment_name_uniq UNIQUE (name)
);

CREATE TABLE vcs (
	id serial PRIMARY KEY,
	revision text NOT NULL,
	dirty boolean NOT NULL,
	CONSTRAINT vcs_revision_dirty_uniq UNIQUE (revision, dirty)
);

CREATE TABLE env_run (
	id serial PRIMARY KEY,
	environment_id integer NOT NULL REFERENCES environment(id) ON DELETE CASCADE,
	vcs_id integer REFERENCES vcs(id),
	start_timestamp timestamp with time zone NOT NULL,
	stop_timestamp timestamp with time zone NOT NULL,
	result text NOT NULL,
	CONSTRAINT result_check CHECK (result in ('success', 'failure', 'skipped'))
);

CREATE INDEX idx_env_run_environment_id ON env_run(environment_id);

CREATE TABLE command_run (
	id serial PRIMARY KEY,
	env_run_id integer NOT NULL REFERENCES env_run(id) ON DELETE CASCADE,
	phase text NOT NULL,
	command text NOT NULL,
	exit_code integer NOT NULL,
	start_timestamp timestamp with time zone NOT NULL,
	stop_timestamp timestamp with time zone NOT NULL,
	CONSTRAINT phase_check CHECK (phase in ('install', 'pre', 'main', 'post'))
);

CREATE INDEX idx_command_run_env_run_id ON command_run(env_run_id);

CREATE TABLE artifact (
	id serial PRIMARY KEY,
	env_run_id integer NOT NULL REFERENCES env_run(id) ON DELETE CASCADE,
	name text NOT NULL,
	size_bytes bigint NOT NULL CHECK (size_bytes >= 0)
);

CREATE INDEX idx_artifact_env_run_id ON artifact(env_run_id);

CREATE TABLE upload (
	id serial PRIMARY KEY,
	artifact_id integer NOT NULL REFERENCES artifact(id) ON DELETE CASCADE,
	uri text NOT NULL,
	method text NOT NULL,
	start_timestamp timestamp with time zone NOT NULL,
	stop_timestamp timestamp with time zone NOT NULL
);
`

// Init creates the envrun tables in the postgresql database
func (c *Client) Init(ctx context.Context) error {
	_, err := c.db.Exec(ctx, initQuery)

	return err
}

// RequiredSchemaVersion returns the database schema version that this client
// requires.
func (c *Client) RequiredSchemaVersion() int32 {
	return schemaVer
}

// SchemaVersion returns the schema version recorded in the database.
func (c *Client) SchemaVersion(ctx context.Context) (int32, error) {
	var ver int32

	err := c.db.QueryRow(ctx, "SELECT schema_version from migrations").Scan(&ver)
	if err != nil {
		return -1, err
	}

	return ver, nil
}

// IsCompatible checks if the database schema exist and has the required
// migration version.
func (c *Client) IsCompatible(ctx context.Context) error {
	if err := c.schemaExist(ctx); err != nil {
		return err
	}

	return c.ensureSchemaIsCompatible(ctx)
}

func (c *Client) ensureSchemaIsCompatible(ctx context.Context) error {
	ver, err := c.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("querying schema_version failed: %w", err)
	}

	if ver != schemaVer {
		return fmt.Errorf("database schema version is not compatible with envrun version, schema version: %d, expected version: %d", ver, schemaVer)
	}

	return nil
}

func (c *Client) tableExists(ctx context.Context, tableName string) (bool, error) {
	const query = `
	SELECT EXISTS
	       (
		SELECT FROM pg_tables
		 WHERE schemaname = 'public'
		   AND tablename = $1
	       )
`

	var exists bool

	err := c.db.QueryRow(ctx, query, tableName).Scan(&exists)

	return exists, err
}

func (c *Client) schemaExist(ctx context.Context) error {
	exists, err := c.tableExists(ctx, "migrations")
	if err != nil {
		return err
	}

	if !exists {
		return errors.New("database schema does not exist")
	}

	return nil
}
