// Package core routes decoded protocol requests to the ledger service and
// converts results and domain errors into response envelopes.
package core

import (
	"context"
	"errors"
	"log"

	"coincore/internal/ledger"
	apperrors "coincore/internal/platform/errors"
	"coincore/internal/protocol"
)

// Core is the dispatch handler for the transport loop. It owns the ledger
// service and, through it, the persistent store.
type Core struct {
	ledger *ledger.Service
}

// New creates the dispatch handler.
func New(svc *ledger.Service) *Core {
	return &Core{ledger: svc}
}

// Handle processes one request and builds the response envelope answering
// it. Domain errors become ServerError payloads inside normal responses; a
// request whose body cannot be decoded gets no response at all.
func (c *Core) Handle(ctx context.Context, req *protocol.Request) *protocol.Response {
	switch req.Type {
	case protocol.TypeCreateNewAccount:
		result, err := c.ledger.CreateAccount(ctx)
		return c.respond(req, result, err)

	case protocol.TypeGetAccount:
		var body protocol.GetAccountRequest
		if err := req.DecodeBody(&body); err != nil {
			log.Printf("dropping %s request %s: %v", req.Type, req.MessageID, err)
			return nil
		}
		account, err := c.ledger.Account(ctx, body.AccountID)
		return c.respond(req, account, err)

	case protocol.TypeGetAccounts:
		accounts, err := c.ledger.Accounts(ctx)
		return c.respond(req, accounts, err)

	case protocol.TypeGetTransactions:
		var body protocol.GetTransactionsRequest
		if err := req.DecodeBody(&body); err != nil {
			log.Printf("dropping %s request %s: %v", req.Type, req.MessageID, err)
			return nil
		}
		transactions, err := c.ledger.Transactions(ctx, body.AccountID, body.TimeRangeStart, body.TimeRangeEnd)
		return c.respond(req, transactions, err)

	case protocol.TypeGetTransaction:
		var body protocol.GetTransactionRequest
		if err := req.DecodeBody(&body); err != nil {
			log.Printf("dropping %s request %s: %v", req.Type, req.MessageID, err)
			return nil
		}
		transaction, err := c.ledger.Transaction(ctx, body.AccountID, body.TransactionID)
		return c.respond(req, transaction, err)

	case protocol.TypeCreateTransaction:
		var body protocol.CreateTransactionRequest
		if err := req.DecodeBody(&body); err != nil {
			log.Printf("dropping %s request %s: %v", req.Type, req.MessageID, err)
			return nil
		}
		receipt, err := c.ledger.Transfer(ctx, body.SenderID, body.ReceiverID, body.Amount, 0)
		return c.respond(req, receipt, err)
	}

	// DecodeRequest rejects unknown types before dispatch.
	log.Printf("dropping request %s with unknown type %q", req.MessageID, req.Type)
	return nil
}

func (c *Core) respond(req *protocol.Request, body any, err error) *protocol.Response {
	if err != nil {
		return protocol.NewErrorResponse(req, serverError(err))
	}
	resp, encErr := protocol.NewResponse(req, body)
	if encErr != nil {
		log.Printf("encode %s response %s: %v", req.Type, req.MessageID, encErr)
		return protocol.NewErrorResponse(req, protocol.ServerError{
			ErrorType:    string(apperrors.CodeUnknown),
			ErrorMessage: "internal error",
		})
	}
	return resp
}

// serverError converts a domain error to its wire form. Store and other
// unexpected failures are deliberately flattened to an opaque error so
// internal failure detail never crosses the process boundary.
func serverError(err error) protocol.ServerError {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return protocol.ServerError{
			ErrorType:    string(appErr.Code),
			ErrorMessage: appErr.Message,
		}
	}
	log.Printf("store failure: %v", err)
	return protocol.ServerError{
		ErrorType:    string(apperrors.CodeStoreError),
		ErrorMessage: "internal store failure",
	}
}
