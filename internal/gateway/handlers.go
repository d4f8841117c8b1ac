package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"coincore/internal/ledger"
	"coincore/internal/protocol"
	"github.com/google/uuid"
)

// CreateAccountResponse is the gateway's REST payload for a new account:
// the core acknowledgement plus the freshly issued bearer token.
type CreateAccountResponse struct {
	AccountID   uuid.UUID `json:"account_id"`
	Token       string    `json:"token"`
	TokenExpiry time.Time `json:"token_expiry"`
}

func (g *Gateway) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	// A bearer token cannot belong to an account that does not exist yet.
	if _, ok := bearerToken(r); ok {
		writeJSON(w, http.StatusBadRequest, gatewayError("bearer auth not necessary"))
		return
	}

	req, err := protocol.NewRequest(protocol.TypeCreateNewAccount, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, gatewayError("internal error"))
		return
	}
	var result ledger.AccountCreatedResult
	if !g.callCore(w, req, &result) {
		return
	}

	token, err := g.tokens.CreateToken(r.Context(), result.AccountID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, gatewayError("could not issue token"))
		return
	}

	writeJSON(w, http.StatusOK, CreateAccountResponse{
		AccountID:   result.AccountID,
		Token:       token.Token,
		TokenExpiry: token.Expiry,
	})
}

func (g *Gateway) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(r, "accountID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, gatewayError("invalid format for account_id"))
		return
	}
	if !g.requireToken(w, r, accountID) {
		return
	}

	req, err := protocol.NewRequest(protocol.TypeGetAccount, protocol.GetAccountRequest{AccountID: accountID})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, gatewayError("internal error"))
		return
	}
	var account ledger.Account
	if !g.callCore(w, req, &account) {
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// GetTransactionsResponse wraps an account's transaction listing.
type GetTransactionsResponse struct {
	AccountID    uuid.UUID            `json:"account_id"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// parseDateParam parses a YYYY-MM-DD query value as a UTC midnight instant.
func parseDateParam(value string) (time.Time, bool) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}

func (g *Gateway) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(r, "accountID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, gatewayError("invalid format for account_id"))
		return
	}
	if !g.requireToken(w, r, accountID) {
		return
	}

	start, startOK := parseDateParam(r.URL.Query().Get("start"))
	end, endOK := parseDateParam(r.URL.Query().Get("end"))
	if !startOK || !endOK {
		writeJSON(w, http.StatusBadRequest, gatewayError("start and end params are required"))
		return
	}

	req, err := protocol.NewRequest(protocol.TypeGetTransactions, protocol.GetTransactionsRequest{
		AccountID:      accountID,
		TimeRangeStart: start,
		TimeRangeEnd:   end,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, gatewayError("internal error"))
		return
	}
	var transactions []ledger.Transaction
	if !g.callCore(w, req, &transactions) {
		return
	}
	writeJSON(w, http.StatusOK, GetTransactionsResponse{
		AccountID:    accountID,
		Transactions: transactions,
	})
}

// TransactionRequest is the REST body for creating a transfer. The sender
// is the authenticated account from the URL.
type TransactionRequest struct {
	Receiver uuid.UUID `json:"receiver"`
	Amount   int64     `json:"amount"`
}

func (g *Gateway) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(r, "accountID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, gatewayError("invalid format for account_id"))
		return
	}
	if !g.requireToken(w, r, accountID) {
		return
	}

	var txReq TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&txReq); err != nil {
		writeJSON(w, http.StatusBadRequest, gatewayError("unexpected transaction request format"))
		return
	}

	req, err := protocol.NewRequest(protocol.TypeCreateTransaction, protocol.CreateTransactionRequest{
		SenderID:   accountID,
		ReceiverID: txReq.Receiver,
		Amount:     txReq.Amount,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, gatewayError("internal error"))
		return
	}
	var receipt ledger.TransactionReceipt
	if !g.callCore(w, req, &receipt) {
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (g *Gateway) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(r, "accountID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, gatewayError("invalid format for account_id"))
		return
	}
	transactionID, ok := pathUUID(r, "transactionID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, gatewayError("invalid format for transaction_id"))
		return
	}
	if !g.requireToken(w, r, accountID) {
		return
	}

	req, err := protocol.NewRequest(protocol.TypeGetTransaction, protocol.GetTransactionRequest{
		AccountID:     accountID,
		TransactionID: transactionID,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, gatewayError("internal error"))
		return
	}
	var transaction ledger.Transaction
	if !g.callCore(w, req, &transaction) {
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}
