package store

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// StoreRawPayload archives a compressed copy of an MPC response body.
// Returns the payload ID, or 0 when an identical payload (same hash) was
// already stored for the endpoint.
func (s *Store) StoreRawPayload(runID *int64, endpoint, object string, payload []byte) (int64, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return 0, fmt.Errorf("compress payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("close gzip: %w", err)
	}

	hash := sha256.Sum256(payload)
	hashHex := hex.EncodeToString(hash[:])

	var fetchRunID sql.NullInt64
	if runID != nil {
		fetchRunID = sql.NullInt64{Int64: *runID, Valid: true}
	}
	var objectNull sql.NullString
	if object != "" {
		objectNull = sql.NullString{String: object, Valid: true}
	}

	result, err := s.db.Exec(`
		INSERT INTO raw_payloads (fetch_run_id, fetched_at, endpoint, object, payload_compressed, payload_hash)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(endpoint, payload_hash) DO NOTHING
	`, fetchRunID, time.Now().UTC(), endpoint, objectNull, buf.Bytes(), hashHex)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil || n == 0 {
		return 0, err
	}
	return result.LastInsertId()
}
