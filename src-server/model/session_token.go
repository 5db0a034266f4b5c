package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const (
	SESSION_TOKEN_KIND_PUBLIC = "public"
	SESSION_TOKEN_KIND_ADMIN  = "admin"
)

// SessionToken caches one upstream scheduling-API session token per auth
// flow and credential fingerprint, so repeated proxy requests don't pay an
// extra login round-trip. Expired rows are replaced on the next auth.
type SessionToken struct {
	bun.BaseModel `bun:"table:session_tokens"`

	Key              string `bun:"key,pk,notnull"`
	Kind             string `bun:"kind,notnull"`
	Token            string `bun:"token,notnull"`
	ExpiresAtUnixUTC int64  `bun:"expires_at_unix_utc,notnull"`
}

func (s *SessionToken) Upsert(ctx context.Context, db bun.IDB) error {
	if db == nil {
		return fmt.Errorf("(*SessionToken).Upsert: db is nil")
	}

	// validate
	switch {
	case s.Key == "":
		return fmt.Errorf("(*SessionToken).Upsert: key is blank")
	case s.Kind != SESSION_TOKEN_KIND_PUBLIC && s.Kind != SESSION_TOKEN_KIND_ADMIN:
		return fmt.Errorf("(*SessionToken).Upsert: invalid kind %q", s.Kind)
	case s.Token == "":
		return fmt.Errorf("(*SessionToken).Upsert: token is blank")
	}

	// upsert
	if _, err := db.NewInsert().
		Model(s).
		On("CONFLICT (key) DO UPDATE").
		Set("kind = EXCLUDED.kind").
		Set("token = EXCLUDED.token").
		Set("expires_at_unix_utc = EXCLUDED.expires_at_unix_utc").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*SessionToken).Upsert: can't upsert session token: %w", err)
	}

	return nil
}

// GetFreshSessionToken returns the cached token for key, or "" when there is
// no cached token or the cached one already expired.
func GetFreshSessionToken(ctx context.Context, db bun.IDB, key string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("GetFreshSessionToken: db is nil")
	}

	tokenModel := new(SessionToken)
	if err := db.NewSelect().
		Model(tokenModel).
		Where("key = ?", key).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("GetFreshSessionToken: can't get session token: %w", err)
	}
	if time.Unix(tokenModel.ExpiresAtUnixUTC, 0).UTC().Before(time.Now().UTC()) {
		return "", nil
	}

	return tokenModel.Token, nil
}
