// Package store caches fetched MPC rows in SQLite so a window can be
// re-reduced offline, and keeps an audit trail of every fetch.
package store

import (
	"database/sql"

	"github.com/mlara/seculight/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertObservation(object string, obs models.ObservationRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO observations (object, year, month, day, jd, magnitude, band)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(object, jd, magnitude, band) DO NOTHING
	`, object, obs.Year, obs.Month, obs.Day, obs.JD, obs.Magnitude, obs.Band)
	return err
}

func (s *Store) InsertObservations(object string, obs []models.ObservationRecord) (int, error) {
	stored := 0
	for _, o := range obs {
		if err := s.InsertObservation(object, o); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

// GetObservations returns the cached observations of an object inside
// [startJD, endJD], ordered by epoch.
func (s *Store) GetObservations(object string, startJD, endJD float64) ([]models.ObservationRecord, error) {
	rows, err := s.db.Query(`
		SELECT year, month, day, jd, magnitude, band
		FROM observations
		WHERE object = ? AND jd >= ? AND jd <= ?
		ORDER BY jd ASC
	`, object, startJD, endJD)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []models.ObservationRecord
	for rows.Next() {
		var o models.ObservationRecord
		if err := rows.Scan(&o.Year, &o.Month, &o.Day, &o.JD, &o.Magnitude, &o.Band); err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

func (s *Store) InsertEphemeris(object string, e models.EphemerisSample) error {
	_, err := s.db.Exec(`
		INSERT INTO ephemerides (object, year, month, day, jd, delta, r, alpha)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(object, jd) DO NOTHING
	`, object, e.Year, e.Month, e.Day, e.JD, e.Delta, e.R, e.Alpha)
	return err
}

func (s *Store) InsertEphemerides(object string, samples []models.EphemerisSample) (int, error) {
	stored := 0
	for _, e := range samples {
		if err := s.InsertEphemeris(object, e); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

// GetEphemerides returns the cached ephemeris samples of an object inside
// [startJD, endJD], ordered by epoch.
func (s *Store) GetEphemerides(object string, startJD, endJD float64) ([]models.EphemerisSample, error) {
	rows, err := s.db.Query(`
		SELECT year, month, day, jd, delta, r, alpha
		FROM ephemerides
		WHERE object = ? AND jd >= ? AND jd <= ?
		ORDER BY jd ASC
	`, object, startJD, endJD)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []models.EphemerisSample
	for rows.Next() {
		var e models.EphemerisSample
		if err := rows.Scan(&e.Year, &e.Month, &e.Day, &e.JD, &e.Delta, &e.R, &e.Alpha); err != nil {
			return nil, err
		}
		samples = append(samples, e)
	}
	return samples, rows.Err()
}
