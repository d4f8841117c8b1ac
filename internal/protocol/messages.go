package protocol

import (
	"time"

	"github.com/google/uuid"
)

// Request payloads for the parameterised variants. CreateNewAccount and
// GetAccounts carry no payload.

// GetAccountRequest asks for a single account by id.
type GetAccountRequest struct {
	AccountID uuid.UUID `json:"account_id"`
}

// GetTransactionsRequest asks for the transactions an account participated
// in within an inclusive time range.
type GetTransactionsRequest struct {
	AccountID      uuid.UUID `json:"account_id"`
	TimeRangeStart time.Time `json:"time_range_start"`
	TimeRangeEnd   time.Time `json:"time_range_end"`
}

// GetTransactionRequest asks for one transaction on behalf of an account.
type GetTransactionRequest struct {
	AccountID     uuid.UUID `json:"account_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

// CreateTransactionRequest asks for a transfer from sender to receiver.
// Fees are not part of the wire contract; the engine applies a zero fee.
type CreateTransactionRequest struct {
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Amount     int64     `json:"amount"`
}
