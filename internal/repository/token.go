package repository

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrTokenNotFound = errors.New("access token not found")

type AccessToken struct {
	ID        int64
	MemberID  string
	ExpiresAt *time.Time
}

// AccessTokenRepository stores bearer tokens hashed at rest. The plain token
// handed to the client has the form "<id>|<secret>"; only the sha256 of the
// secret part is persisted.
type AccessTokenRepository struct {
	db *sql.DB
}

func NewAccessTokenRepository(db *sql.DB) *AccessTokenRepository {
	return &AccessTokenRepository{db: db}
}

func (r *AccessTokenRepository) Issue(ctx context.Context, memberID string, ttl time.Duration) (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	plain := hex.EncodeToString(secret)

	sum := sha256.Sum256([]byte(plain))
	hash := hex.EncodeToString(sum[:])

	expiresAt := time.Now().Add(ttl)

	var id int64
	query := `INSERT INTO access_tokens (token_hash, member_id, expires_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, hash, memberID, expiresAt).Scan(&id); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	return fmt.Sprintf("%d|%s", id, plain), nil
}

func (r *AccessTokenRepository) FindByPlainToken(ctx context.Context, plainToken string) (*AccessToken, error) {
	plainToken = strings.TrimSpace(plainToken)
	if plainToken == "" {
		return nil, ErrTokenNotFound
	}

	// tokens are "<id>|<secret>"; the id prefix is advisory and the hash is
	// what actually authenticates
	secret := plainToken
	if idx := strings.Index(plainToken, "|"); idx > 0 {
		secret = plainToken[idx+1:]
	}

	sum := sha256.Sum256([]byte(secret))
	hash := hex.EncodeToString(sum[:])

	var t AccessToken
	var expiresAt sql.NullTime
	query := `SELECT id, member_id, expires_at FROM access_tokens WHERE token_hash = $1`
	err := r.db.QueryRowContext(ctx, query, hash).Scan(&t.ID, &t.MemberID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t.ExpiresAt = &expiresAt.Time
	}
	return &t, nil
}
