// Package ledger implements the custodial account ledger: account identities
// and balances, the atomic transfer engine, and the append-only transaction
// record that documents every movement of funds.
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Account is a balance-holding entity. Funds are in minor units and are
// never negative.
type Account struct {
	AccountID uuid.UUID `json:"account_id"`
	Created   time.Time `json:"created"`
	Funds     int64     `json:"funds"`
}

// AccountCreatedResult acknowledges a persisted account.
type AccountCreatedResult struct {
	AccountID uuid.UUID `json:"account_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Transaction is one immutable entry in the ledger. The persisted timestamp
// is assigned by the store, never by the caller.
type Transaction struct {
	TransactionID     uuid.UUID `json:"transaction_id"`
	Timestamp         time.Time `json:"timestamp"`
	SenderAccountID   uuid.UUID `json:"sender_account_id"`
	ReceiverAccountID uuid.UUID `json:"receiver_account_id"`
	Amount            int64     `json:"amount"`
	Fee               int32     `json:"fee"`
}

// TransactionReceipt is the returned-only view of a committed transfer,
// carrying the sender's post-transfer balance. It is never persisted.
type TransactionReceipt struct {
	TransactionID      uuid.UUID `json:"transaction_id"`
	Timestamp          time.Time `json:"timestamp"`
	SenderAccountID    uuid.UUID `json:"sender_account_id"`
	ReceiverAccountID  uuid.UUID `json:"receiver_account_id"`
	SenderAccountFunds int64     `json:"sender_account_funds"`
	Fee                int32     `json:"fee"`
}

// NewAccount constructs a fresh account with zero funds. It has no side
// effect until persisted.
func NewAccount() Account {
	return Account{
		AccountID: uuid.New(),
		Created:   time.Now().UTC(),
		Funds:     0,
	}
}

// seedAccountID is the well-known identity of the bootstrap seed account.
const seedAccountID = "4e9b616a-f11e-48b6-8c2f-9534d482e48e"

// SeedAccountID returns the fixed identity of the seed account.
func SeedAccountID() uuid.UUID {
	return uuid.MustParse(seedAccountID)
}

// SeedAccount returns the well-known seed account created at first
// bootstrap, funded so it can pay out stipends and seed transfers.
func SeedAccount() Account {
	return Account{
		AccountID: SeedAccountID(),
		Created:   time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Funds:     1000 * 100,
	}
}
