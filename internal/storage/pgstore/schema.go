package pgstore

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS parcels (
  id TEXT PRIMARY KEY,
  creator_email TEXT NOT NULL DEFAULT '',
  creation_sort TIMESTAMPTZ,
  payment_status TEXT NOT NULL DEFAULT '',
  extra JSONB NOT NULL DEFAULT '{}'::jsonb
)`,
		`CREATE INDEX IF NOT EXISTS idx_parcels_creator_email_creation_sort ON parcels(creator_email, creation_sort DESC NULLS LAST)`,
		`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  extra JSONB NOT NULL DEFAULT '{}'::jsonb
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users(email)`,
		`
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  parcel_id TEXT NOT NULL,
  user_email TEXT NOT NULL,
  transaction_id TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  extra JSONB NOT NULL DEFAULT '{}'::jsonb
)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_user_email_created_at ON payments(user_email, created_at DESC)`,
		`
CREATE TABLE IF NOT EXISTS tracking_events (
  id TEXT PRIMARY KEY,
  tracking_id TEXT NOT NULL,
  parcel_id TEXT NOT NULL,
  user_email TEXT NOT NULL,
  status TEXT NOT NULL,
  location TEXT NOT NULL,
  message TEXT NOT NULL DEFAULT '',
  event_time TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_tracking_events_tracking_id_event_time ON tracking_events(tracking_id, event_time)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
