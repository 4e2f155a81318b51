package store

import (
	"database/sql"
	"time"
)

// FetchRun records a single MPC request for auditing.
type FetchRun struct {
	ID                int64
	StartedAt         time.Time
	FinishedAt        sql.NullTime
	Endpoint          string // "ephemeris", "object", "elements"
	Object            sql.NullString
	HTTPStatus        sql.NullInt64
	ResponseSizeBytes sql.NullInt64
	RecordsParsed     sql.NullInt64
	RecordsStored     sql.NullInt64
	ParseErrors       sql.NullInt64
	Success           bool
	ErrorMessage      sql.NullString
}

// StartFetchRun creates a new fetch run record and returns it.
func (s *Store) StartFetchRun(endpoint, object string) (*FetchRun, error) {
	run := &FetchRun{
		StartedAt: time.Now().UTC(),
		Endpoint:  endpoint,
	}
	if object != "" {
		run.Object = sql.NullString{String: object, Valid: true}
	}

	result, err := s.db.Exec(`
		INSERT INTO fetch_runs (started_at, endpoint, object, success)
		VALUES (?, ?, ?, FALSE)
	`, run.StartedAt, run.Endpoint, run.Object)
	if err != nil {
		return nil, err
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return run, nil
}

// CompleteFetchRun updates the fetch run with results.
func (s *Store) CompleteFetchRun(run *FetchRun) error {
	if run == nil {
		return nil
	}

	run.FinishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}

	_, err := s.db.Exec(`
		UPDATE fetch_runs SET
			finished_at = ?,
			http_status = ?,
			response_size_bytes = ?,
			records_parsed = ?,
			records_stored = ?,
			parse_errors = ?,
			success = ?,
			error_message = ?
		WHERE id = ?
	`, run.FinishedAt, run.HTTPStatus, run.ResponseSizeBytes, run.RecordsParsed,
		run.RecordsStored, run.ParseErrors, run.Success, run.ErrorMessage, run.ID)
	return err
}
