// Package auth issues and validates the opaque bearer tokens the gateway
// uses as its capability check. Tokens never reach the core protocol; the
// gateway validates them before forwarding a request.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"coincore/internal/auth/migrations"
	apperrors "coincore/internal/platform/errors"
	sqlitemigrate "coincore/internal/platform/storage/sqlitemigrate"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

const (
	tokenByteLen = 128
	tokenHexLen  = tokenByteLen * 2
	tokenTTL     = 30 * 24 * time.Hour
)

// Token validation errors, matched by code.
var (
	ErrTokenLengthInvalid   = apperrors.New(apperrors.CodeTokenLengthInvalid, "token has the wrong length")
	ErrTokenEncodingInvalid = apperrors.New(apperrors.CodeTokenEncodingInvalid, "token is not valid hex")
	ErrTokenExpired         = apperrors.New(apperrors.CodeTokenExpired, "token has expired")
	ErrTokenDoesNotExist    = apperrors.New(apperrors.CodeTokenDoesNotExist, "no token issued for this account")
)

// TokenCreatedResult carries a freshly issued token back to the caller. The
// plain token is returned exactly once; only its hash is stored.
type TokenCreatedResult struct {
	Token     string    `json:"token"`
	AccountID uuid.UUID `json:"account_id"`
	Expiry    time.Time `json:"expiry"`
}

// Store provides SQLite-backed persistence for issued tokens. It lives in
// its own database, separate from the ledger store the core process owns.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a token store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateToken issues a fresh random token for an account, valid for thirty
// days. The stored hash is bcrypt over a sha256 digest of the raw bytes,
// keeping the input inside bcrypt's length limit.
func (s *Store) CreateToken(ctx context.Context, accountID uuid.UUID) (TokenCreatedResult, error) {
	if s == nil || s.sqlDB == nil {
		return TokenCreatedResult{}, fmt.Errorf("storage is not configured")
	}

	raw := make([]byte, tokenByteLen)
	if _, err := rand.Read(raw); err != nil {
		return TokenCreatedResult{}, fmt.Errorf("generate token: %w", err)
	}

	digest := sha256.Sum256(raw)
	hash, err := bcrypt.GenerateFromPassword(digest[:], bcrypt.DefaultCost)
	if err != nil {
		return TokenCreatedResult{}, fmt.Errorf("hash token: %w", err)
	}

	expiry := time.Now().UTC().Add(tokenTTL)
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tokens (token_hash, account_id, expiry) VALUES (?, ?, ?)`,
		string(hash),
		accountID.String(),
		expiry.UnixNano(),
	)
	if err != nil {
		return TokenCreatedResult{}, fmt.Errorf("save token: %w", err)
	}

	return TokenCreatedResult{
		Token:     hex.EncodeToString(raw),
		AccountID: accountID,
		Expiry:    expiry,
	}, nil
}

// ValidateToken reports whether token is a live credential for accountID.
// Existence is checked before expiry: an account with no issued tokens
// yields ErrTokenDoesNotExist, a matching but stale token ErrTokenExpired.
func (s *Store) ValidateToken(ctx context.Context, token string, accountID uuid.UUID) (bool, error) {
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	if len(token) != tokenHexLen {
		return false, ErrTokenLengthInvalid
	}
	raw, err := hex.DecodeString(token)
	if err != nil {
		return false, ErrTokenEncodingInvalid
	}
	digest := sha256.Sum256(raw)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT token_hash, expiry FROM tokens WHERE account_id = ?`,
		accountID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("load tokens: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	checked := 0
	for rows.Next() {
		var hash string
		var expiry int64
		if err := rows.Scan(&hash, &expiry); err != nil {
			return false, fmt.Errorf("scan token: %w", err)
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), digest[:]) == nil {
			if time.Now().UTC().After(time.Unix(0, expiry).UTC()) {
				return false, ErrTokenExpired
			}
			return true, nil
		}
		checked++
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterate tokens: %w", err)
	}

	if checked == 0 {
		return false, ErrTokenDoesNotExist
	}
	return false, nil
}
