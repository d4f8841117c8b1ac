package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"coincore/internal/ledger"
	"github.com/google/uuid"
)

// SaveAccount persists a new account row. A primary key collision surfaces
// as ledger.ErrAccountAlreadyExists.
func (s *Store) SaveAccount(ctx context.Context, account ledger.Account) (ledger.AccountCreatedResult, error) {
	if s == nil || s.sqlDB == nil {
		return ledger.AccountCreatedResult{}, fmt.Errorf("storage is not configured")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO accounts (account_id, created, funds) VALUES (?, ?, ?)`,
		account.AccountID.String(),
		timeToUnixNanos(account.Created),
		account.Funds,
	)
	if err != nil {
		if isConstraintError(err) {
			return ledger.AccountCreatedResult{}, ledger.ErrAccountAlreadyExists
		}
		return ledger.AccountCreatedResult{}, fmt.Errorf("save account: %w", err)
	}

	return ledger.AccountCreatedResult{
		AccountID: account.AccountID,
		Timestamp: time.Now().UTC(),
	}, nil
}

// LoadAccount loads a single account by id.
func (s *Store) LoadAccount(ctx context.Context, accountID uuid.UUID) (ledger.Account, error) {
	if s == nil || s.sqlDB == nil {
		return ledger.Account{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT account_id, created, funds FROM accounts WHERE account_id = ?`,
		accountID.String(),
	)

	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return ledger.Account{}, ledger.ErrAccountDoesNotExist
		}
		return ledger.Account{}, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}

// ListAccounts returns every account ordered by primary key, so the read
// order is deterministic for a given store state.
func (s *Store) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT account_id, created, funds FROM accounts ORDER BY account_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	accounts := make([]ledger.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (ledger.Account, error) {
	var account ledger.Account
	var rawID string
	var created int64
	if err := row.Scan(&rawID, &created, &account.Funds); err != nil {
		return ledger.Account{}, err
	}
	accountID, err := uuid.Parse(rawID)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("parse account id: %w", err)
	}
	account.AccountID = accountID
	account.Created = unixNanosToTime(created)
	return account, nil
}
