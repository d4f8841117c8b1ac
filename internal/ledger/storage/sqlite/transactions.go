package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"coincore/internal/ledger"
	"github.com/google/uuid"
)

// ApplyTransfer executes the debit, credit, and ledger append as one
// transaction. Any failure rolls the whole unit back; neither a balance
// change nor a ledger entry survives a partial transfer.
//
// The persisted timestamp is assigned here: the store is the authority, the
// caller-supplied transaction timestamp is only the request time.
func (s *Store) ApplyTransfer(ctx context.Context, transfer ledger.Transaction) (ledger.TransactionReceipt, error) {
	if s == nil || s.sqlDB == nil {
		return ledger.TransactionReceipt{}, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return ledger.TransactionReceipt{}, fmt.Errorf("begin transfer: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var senderFunds int64
	err = tx.QueryRowContext(
		ctx,
		`SELECT funds FROM accounts WHERE account_id = ?`,
		transfer.SenderAccountID.String(),
	).Scan(&senderFunds)
	if err != nil {
		if err == sql.ErrNoRows {
			return ledger.TransactionReceipt{}, ledger.ErrSenderAccountDoesNotExist
		}
		return ledger.TransactionReceipt{}, fmt.Errorf("read sender funds: %w", err)
	}

	newSenderFunds := senderFunds - (transfer.Amount + int64(transfer.Fee))
	if newSenderFunds < 0 {
		return ledger.TransactionReceipt{}, ledger.ErrSenderAccountNotEnoughFunds
	}

	result, err := tx.ExecContext(
		ctx,
		`UPDATE accounts SET funds = ? WHERE account_id = ?`,
		newSenderFunds,
		transfer.SenderAccountID.String(),
	)
	if err != nil {
		return ledger.TransactionReceipt{}, fmt.Errorf("debit sender: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return ledger.TransactionReceipt{}, fmt.Errorf("debit sender rows: %w", err)
	} else if affected == 0 {
		return ledger.TransactionReceipt{}, ledger.ErrSenderAccountDoesNotExist
	}

	result, err = tx.ExecContext(
		ctx,
		`UPDATE accounts SET funds = funds + ? WHERE account_id = ?`,
		transfer.Amount,
		transfer.ReceiverAccountID.String(),
	)
	if err != nil {
		return ledger.TransactionReceipt{}, fmt.Errorf("credit receiver: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return ledger.TransactionReceipt{}, fmt.Errorf("credit receiver rows: %w", err)
	} else if affected == 0 {
		return ledger.TransactionReceipt{}, ledger.ErrReceiverAccountDoesNotExist
	}

	committedAt := time.Now().UTC()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO transactions (transaction_id, timestamp, sender_account_id, receiver_account_id, amount, fee)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		transfer.TransactionID.String(),
		timeToUnixNanos(committedAt),
		transfer.SenderAccountID.String(),
		transfer.ReceiverAccountID.String(),
		transfer.Amount,
		transfer.Fee,
	)
	if err != nil {
		return ledger.TransactionReceipt{}, fmt.Errorf("append transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ledger.TransactionReceipt{}, fmt.Errorf("commit transfer: %w", err)
	}

	return ledger.TransactionReceipt{
		TransactionID:      transfer.TransactionID,
		Timestamp:          committedAt,
		SenderAccountID:    transfer.SenderAccountID,
		ReceiverAccountID:  transfer.ReceiverAccountID,
		SenderAccountFunds: newSenderFunds,
		Fee:                transfer.Fee,
	}, nil
}

// TransactionsInRange returns transactions where the account is sender or
// receiver with timestamps in [start, end] inclusive, oldest first.
func (s *Store) TransactionsInRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]ledger.Transaction, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT transaction_id, timestamp, sender_account_id, receiver_account_id, amount, fee
		 FROM transactions
		 WHERE (sender_account_id = ? OR receiver_account_id = ?)
		   AND timestamp >= ? AND timestamp <= ?
		 ORDER BY timestamp`,
		accountID.String(),
		accountID.String(),
		timeToUnixNanos(start),
		timeToUnixNanos(end),
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	transactions := make([]ledger.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return transactions, nil
}

// TransactionByID loads a single transaction row.
func (s *Store) TransactionByID(ctx context.Context, transactionID uuid.UUID) (ledger.Transaction, bool, error) {
	if s == nil || s.sqlDB == nil {
		return ledger.Transaction{}, false, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT transaction_id, timestamp, sender_account_id, receiver_account_id, amount, fee
		 FROM transactions WHERE transaction_id = ?`,
		transactionID.String(),
	)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return ledger.Transaction{}, false, nil
		}
		return ledger.Transaction{}, false, fmt.Errorf("load transaction: %w", err)
	}
	return transaction, true, nil
}

func scanTransaction(row rowScanner) (ledger.Transaction, error) {
	var transaction ledger.Transaction
	var rawID, rawSender, rawReceiver string
	var timestamp int64
	if err := row.Scan(&rawID, &timestamp, &rawSender, &rawReceiver, &transaction.Amount, &transaction.Fee); err != nil {
		return ledger.Transaction{}, err
	}

	transactionID, err := uuid.Parse(rawID)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("parse transaction id: %w", err)
	}
	senderID, err := uuid.Parse(rawSender)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("parse sender account id: %w", err)
	}
	receiverID, err := uuid.Parse(rawReceiver)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("parse receiver account id: %w", err)
	}

	transaction.TransactionID = transactionID
	transaction.SenderAccountID = senderID
	transaction.ReceiverAccountID = receiverID
	transaction.Timestamp = unixNanosToTime(timestamp)
	return transaction, nil
}
