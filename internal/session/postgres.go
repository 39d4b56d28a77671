package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fsanano/storefront-client/internal/model"
)

// PostgresStore persists the session pair in a single-row table. Useful
// when the client runs somewhere without a writable state directory.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS client_session (
			id    int PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			"user" jsonb NOT NULL,
			token text NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("ensure session table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*model.Session, error) {
	var userData []byte
	var token string
	err := s.db.QueryRow(ctx, `SELECT "user", token FROM client_session WHERE id = 1`).Scan(&userData, &token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(userData, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if token == "" {
		return nil, nil
	}
	return &model.Session{User: user, Token: token}, nil
}

func (s *PostgresStore) Save(ctx context.Context, sess model.Session) error {
	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO client_session (id, "user", token) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET "user" = $1, token = $2`, userData, sess.Token)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM client_session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
