package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct{ DB *sql.DB }

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil { return nil, err }
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE TABLE IF NOT EXISTS predictions (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            session_id      TEXT NOT NULL,
            sqft            DOUBLE PRECISION NOT NULL,
            location        TEXT NOT NULL,
            property_type   TEXT NOT NULL,
            status          TEXT NOT NULL,
            predicted_price NUMERIC NOT NULL,
            base_value      NUMERIC,
            location_known  BOOLEAN NOT NULL DEFAULT TRUE,
            created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_session ON predictions(session_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_at DESC);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil { return err }
	}
	return nil
}

type PredictionInput struct {
	SessionID      string
	Sqft           float64
	Location       string
	PropertyType   string
	Status         string
	PredictedPrice float64
	BaseValue      sql.NullFloat64
	LocationKnown  bool
}

type PredictionRecord struct {
	ID             string    `json:"id"`
	Sqft           float64   `json:"sqft"`
	Location       string    `json:"location"`
	PropertyType   string    `json:"property_type"`
	Status         string    `json:"status"`
	PredictedPrice float64   `json:"predicted_price"`
	BaseValue      float64   `json:"base_value"`
	LocationKnown  bool      `json:"location_known"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Store) InsertPrediction(ctx context.Context, in PredictionInput) (string, error) {
	if s.DB == nil { return "", errors.New("nil db") }
	var id string
	err := s.DB.QueryRowContext(ctx, `
        INSERT INTO predictions (session_id, sqft, location, property_type, status, predicted_price, base_value, location_known)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`,
		in.SessionID, in.Sqft, in.Location, in.PropertyType, in.Status,
		in.PredictedPrice, in.BaseValue, in.LocationKnown,
	).Scan(&id)
	if err != nil { return "", err }
	return id, nil
}

func (s *Store) FetchSessionPredictions(ctx context.Context, sessionID string, limit int) ([]PredictionRecord, error) {
	if s.DB == nil { return nil, errors.New("nil db") }
	if limit <= 0 { limit = 20 }
	rows, err := s.DB.QueryContext(ctx, `
        SELECT id, sqft, location, property_type, status, predicted_price, COALESCE(base_value, 0), location_known, created_at
        FROM predictions
        WHERE session_id = $1
        ORDER BY created_at DESC
        LIMIT $2`, sessionID, limit)
	if err != nil { return nil, err }
	defer rows.Close()

	var out []PredictionRecord
	for rows.Next() {
		var rec PredictionRecord
		if err := rows.Scan(&rec.ID, &rec.Sqft, &rec.Location, &rec.PropertyType, &rec.Status,
			&rec.PredictedPrice, &rec.BaseValue, &rec.LocationKnown, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
