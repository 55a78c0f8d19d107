package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"

	"github.com/envrun/envrun/pkg/storage"
)

func strArgList(args ...interface{}) string {
	var result strings.Builder

	result.WriteRune('[')

	for i, arg := range args {
		fmt.Fprintf(&result, "'%v'", arg)

		if i < len(args)-1 {
			result.WriteString(", ")
		}
	}

	result.WriteRune(']')

	return result.String()
}

// queryValueStr returns the argument for an SQL VALUES statement with
// enumerated parameters.
// It creates pairsCount "($n, $n+1, $n+...)" string pairs, with argsPerPair
// values per pair.
func queryValueStr(pairsCount, argsPerPair int) string {
	var res strings.Builder

	argNr := 1
	for i := 0; i < pairsCount; i++ {
		if i > 0 {
			res.WriteRune(' ')
		}

		res.WriteRune('(')

		for j := 0; j < argsPerPair; j++ {
			fmt.Fprintf(&res, "$%d", argNr)
			argNr++

			if j < argsPerPair-1 {
				res.WriteString(", ")
			}
		}

		res.WriteRune(')')

		if i < pairsCount-1 {
			res.WriteString(", ")
		}
	}

	return res.String()
}

func scanIDs(rows pgx.Rows, res *[]int) error {
	for rows.Next() {
		var id int

		err := rows.Scan(&id)
		if err != nil {
			rows.Close()
			return err
		}

		*res = append(*res, id)
	}

	return rows.Err()
}

func insertEnvironmentIfNotExist(ctx context.Context, db dbConn, envName string) (int, error) {
	const query = `
	   INSERT INTO environment (name)
	   VALUES ($1)
	       ON CONFLICT ON CONSTRAINT environment_name_uniq
	       DO UPDATE SET id=environment.id
	RETURNING id
	`

	var id int

	if err := db.QueryRow(ctx, query, envName).Scan(&id); err != nil {
		return -1, newQueryError(query, err, envName)
	}

	return id, nil
}

func insertVCSIfNotExist(ctx context.Context, db dbConn, revision string, isDirty bool) (int, error) {
	const query = `
	   INSERT INTO vcs (revision, dirty)
	   VALUES ($1, $2)
	       ON CONFLICT ON CONSTRAINT vcs_revision_dirty_uniq
	       DO UPDATE SET id=vcs.id
	RETURNING id
	`

	var id int

	if err := db.QueryRow(ctx, query, revision, isDirty).Scan(&id); err != nil {
		return -1, newQueryError(query, err, revision, isDirty)
	}

	return id, nil
}

func insertCommandRuns(ctx context.Context, db dbConn, envRunID int, commands []*storage.CommandRun) error {
	if len(commands) == 0 {
		return nil
	}

	const stmt1 = `
	INSERT INTO command_run (env_run_id, phase, command, exit_code, start_timestamp, stop_timestamp)
	VALUES
	`

	stmtVals := queryValueStr(len(commands), 6)

	queryArgs := make([]interface{}, 0, len(commands)*6)
	for _, cmd := range commands {
		queryArgs = append(
			queryArgs,
			envRunID, cmd.Phase, cmd.Command, cmd.ExitCode, cmd.StartTimestamp, cmd.StopTimestamp,
		)
	}

	query := stmt1 + stmtVals

	_, err := db.Exec(ctx, query, queryArgs...)
	if err != nil {
		return newQueryError(query, err, queryArgs...)
	}

	return nil
}

func insertUploads(ctx context.Context, db dbConn, artifactID int, uploads []*storage.Upload) error {
	if len(uploads) == 0 {
		return nil
	}

	const stmt1 = `
	INSERT INTO upload (artifact_id, uri, method, start_timestamp, stop_timestamp)
	VALUES
	`

	stmtVals := queryValueStr(len(uploads), 5)

	queryArgs := make([]interface{}, 0, len(uploads)*5)
	for _, upload := range uploads {
		queryArgs = append(
			queryArgs,
			artifactID, upload.URI, upload.Method, upload.UploadStartTimestamp, upload.UploadStopTimestamp,
		)
	}

	query := stmt1 + stmtVals

	_, err := db.Exec(ctx, query, queryArgs...)
	if err != nil {
		return newQueryError(query, err, queryArgs...)
	}

	return nil
}

func insertArtifacts(ctx context.Context, db dbConn, envRunID int, artifacts []*storage.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	const stmt1 = `
	INSERT INTO artifact (env_run_id, name, size_bytes)
	VALUES
	`
	const stmt2 = "RETURNING id"

	stmtVals := queryValueStr(len(artifacts), 3)

	queryArgs := make([]interface{}, 0, len(artifacts)*3)
	for _, artifact := range artifacts {
		queryArgs = append(queryArgs, envRunID, artifact.Name, artifact.SizeBytes)
	}

	query := stmt1 + stmtVals + " " + stmt2

	rows, err := db.Query(ctx, query, queryArgs...)
	if err != nil {
		return newQueryError(query, err, queryArgs...)
	}

	ids := make([]int, 0, len(artifacts))
	if err := scanIDs(rows, &ids); err != nil {
		return newQueryError(query, err, queryArgs...)
	}

	if len(ids) != len(artifacts) {
		return fmt.Errorf("inserting artifact records returned %d ids, expected %d", len(ids), len(artifacts))
	}

	for i, artifact := range artifacts {
		if err := insertUploads(ctx, db, ids[i], artifact.Uploads); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) saveEnvRun(ctx context.Context, tx pgx.Tx, envRun *storage.EnvRunFull) (int, error) {
	const query = `
		   INSERT INTO env_run (environment_id, vcs_id, start_timestamp, stop_timestamp, result)
		   VALUES($1, $2, $3, $4, $5)
		RETURNING ID
		`

	var envRunID int
	var vcsID interface{}

	envID, err := insertEnvironmentIfNotExist(ctx, tx, envRun.EnvironmentName)
	if err != nil {
		return -1, fmt.Errorf("storing environment record failed: %w", err)
	}

	if envRun.VCSRevision != "" {
		id, err := insertVCSIfNotExist(ctx, tx, envRun.VCSRevision, envRun.VCSIsDirty)
		if err != nil {
			return -1, fmt.Errorf("storing vcs record failed: %w", err)
		}

		vcsID = id
	}

	queryArgs := []interface{}{
		envID,
		vcsID,
		envRun.StartTimestamp,
		envRun.StopTimestamp,
		envRun.Result,
	}

	err = tx.QueryRow(
		ctx,
		query,
		queryArgs...,
	).Scan(&envRunID)
	if err != nil {
		return -1, newQueryError(query, err, queryArgs...)
	}

	err = insertCommandRuns(ctx, tx, envRunID, envRun.Commands)
	if err != nil {
		return -1, err
	}

	err = insertArtifacts(ctx, tx, envRunID, envRun.Artifacts)
	if err != nil {
		return -1, err
	}

	return envRunID, nil
}

func (c *Client) SaveEnvRun(ctx context.Context, envRun *storage.EnvRunFull) (int, error) {
	var id int

	err := c.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		var err error
		id, err = c.saveEnvRun(ctx, tx, envRun)

		return err
	})
	if err != nil {
		return -1, err
	}

	return id, nil
}
