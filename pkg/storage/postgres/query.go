package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/envrun/envrun/pkg/storage"
)

func (c *Client) EnvRun(ctx context.Context, id int) (*storage.EnvRunWithID, error) {
	var envRun *storage.EnvRunWithID

	idFilter := []*storage.Filter{
		{
			Field:    storage.FieldID,
			Operator: storage.OpEQ,
			Value:    id,
		},
	}

	err := c.EnvRuns(ctx, idFilter, nil, storage.NoLimit, func(r *storage.EnvRunWithID) error {
		envRun = r

		return nil
	})

	if err != nil {
		return nil, err
	}

	if envRun == nil {
		panic("EnvRuns returned a nil EnvRunWithID and nil error")
	}

	return envRun, nil
}

func (c *Client) EnvRuns(
	ctx context.Context,
	filters []*storage.Filter,
	sorters []*storage.Sorter,
	limit uint,
	cb func(*storage.EnvRunWithID) error,
) error {
	const baseQuery = `
	SELECT env_run_id, environment_name, revision, dirty, start_timestamp, stop_timestamp, result
	  FROM (
	       SELECT env_run.id AS env_run_id,
	              environment.name AS environment_name,
	              vcs.revision,
	              vcs.dirty,
	              env_run.start_timestamp AS start_timestamp,
	              env_run.stop_timestamp,
	              env_run.result,
	              (EXTRACT(EPOCH FROM (env_run.stop_timestamp - env_run.start_timestamp))::bigint * 1000000000) AS duration
	         FROM environment
	         JOIN env_run ON environment.id = env_run.environment_id
	         LEFT OUTER JOIN vcs ON vcs.id = env_run.vcs_id
	       ) er
	  `

	var queryReturnedRows bool

	q := query{
		BaseQuery: baseQuery,
		Filters:   filters,
		Sorters:   sorters,
		Limit:     limit,
	}

	query, args, err := q.Compile()
	if err != nil {
		return fmt.Errorf("compiling query string failed: %w", err)
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query %s with args: %s failed: %w", query, strArgList(args...), err)
	}

	for rows.Next() {
		var envRun storage.EnvRunWithID
		var revision sql.NullString
		var dirty sql.NullBool

		queryReturnedRows = true

		err := rows.Scan(
			&envRun.ID,
			&envRun.EnvironmentName,
			&revision,
			&dirty,
			&envRun.StartTimestamp,
			&envRun.StopTimestamp,
			&envRun.Result,
		)

		if err != nil {
			rows.Close()
			return fmt.Errorf("query %s with args: %s failed: %w", query, strArgList(args...), err)
		}

		envRun.VCSRevision = revision.String
		envRun.VCSIsDirty = dirty.Bool

		if err := cb(&envRun); err != nil {
			rows.Close()
			return fmt.Errorf("callback failed: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("query %s with args: %s failed: %w", query, strArgList(args...), err)
	}

	if !queryReturnedRows {
		return storage.ErrNotExist
	}

	return nil
}

func (c *Client) CommandRuns(ctx context.Context, envRunID int) ([]*storage.CommandRun, error) {
	const query = `
	SELECT command_run.phase,
	       command_run.command,
	       command_run.exit_code,
	       command_run.start_timestamp,
	       command_run.stop_timestamp
	  FROM command_run
	 WHERE command_run.env_run_id = $1
	 ORDER BY command_run.id
	 `

	var result []*storage.CommandRun

	rows, err := c.db.Query(ctx, query, envRunID)
	if err != nil {
		return nil, newQueryError(query, err, envRunID)
	}

	for rows.Next() {
		var cmd storage.CommandRun

		err := rows.Scan(
			&cmd.Phase,
			&cmd.Command,
			&cmd.ExitCode,
			&cmd.StartTimestamp,
			&cmd.StopTimestamp,
		)
		if err != nil {
			rows.Close()
			return nil, newQueryError(query, err, envRunID)
		}

		result = append(result, &cmd)
	}

	if err := rows.Err(); err != nil {
		return nil, newQueryError(query, err, envRunID)
	}

	if len(result) == 0 {
		return nil, storage.ErrNotExist
	}

	return result, nil
}
