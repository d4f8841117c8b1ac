package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence contract the ledger service operates against.
// Implementations must make ApplyTransfer a single atomic unit: either the
// debit, credit, and ledger append all commit, or none of them do.
type Store interface {
	SaveAccount(ctx context.Context, account Account) (AccountCreatedResult, error)
	LoadAccount(ctx context.Context, accountID uuid.UUID) (Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	ApplyTransfer(ctx context.Context, tx Transaction) (TransactionReceipt, error)
	TransactionsInRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]Transaction, error)
	TransactionByID(ctx context.Context, transactionID uuid.UUID) (Transaction, bool, error)
}

// Service exposes the ledger operations the dispatch loop routes to.
type Service struct {
	store Store
}

// NewService creates a ledger service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateAccount generates a fresh account and persists it.
func (s *Service) CreateAccount(ctx context.Context) (AccountCreatedResult, error) {
	return s.store.SaveAccount(ctx, NewAccount())
}

// Account loads a single account by id.
func (s *Service) Account(ctx context.Context, accountID uuid.UUID) (Account, error) {
	return s.store.LoadAccount(ctx, accountID)
}

// Accounts lists every account in a stable read order.
func (s *Service) Accounts(ctx context.Context) ([]Account, error) {
	return s.store.ListAccounts(ctx)
}

// Transfer validates and atomically executes a transfer of amount (plus fee)
// from sender to receiver, appending an immutable transaction record.
//
// Validation happens in a fixed order before any store access, so rejected
// transfers are deterministic and side-effect free.
func (s *Service) Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount int64, fee int32) (TransactionReceipt, error) {
	if amount == 0 {
		return TransactionReceipt{}, ErrAmountIsZero
	}
	if amount < 0 {
		return TransactionReceipt{}, ErrAmountIsNegative
	}
	if fee < 0 {
		return TransactionReceipt{}, ErrFeeIsNegative
	}
	if senderID == receiverID {
		return TransactionReceipt{}, ErrSenderReceiverAreTheSame
	}
	// Fee distribution is not implemented. Reject rather than silently
	// accept a fee the ledger would never pay out.
	if fee != 0 {
		return TransactionReceipt{}, ErrFeeNotSupported
	}

	tx := Transaction{
		TransactionID:     uuid.New(),
		Timestamp:         time.Now().UTC(),
		SenderAccountID:   senderID,
		ReceiverAccountID: receiverID,
		Amount:            amount,
		Fee:               fee,
	}
	return s.store.ApplyTransfer(ctx, tx)
}

// Transactions returns every transaction in which the account participated
// as sender or receiver, with timestamps in [start, end] inclusive, ordered
// by timestamp ascending.
func (s *Service) Transactions(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]Transaction, error) {
	return s.store.TransactionsInRange(ctx, accountID, start, end)
}

// Transaction loads a single transaction on behalf of accountID. The account
// must be a party to the transaction; existence is checked before the
// permission so unknown ids are reported as such.
func (s *Service) Transaction(ctx context.Context, accountID, transactionID uuid.UUID) (Transaction, error) {
	tx, found, err := s.store.TransactionByID(ctx, transactionID)
	if err != nil {
		return Transaction{}, err
	}
	if !found {
		return Transaction{}, ErrTransactionDoesNotExist
	}
	if tx.SenderAccountID != accountID && tx.ReceiverAccountID != accountID {
		return Transaction{}, ErrPermissionDenied
	}
	return tx, nil
}
