package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coincore/internal/auth"
	"coincore/internal/ledger"
	"coincore/internal/protocol"
	"github.com/google/uuid"
)

// fakeCaller answers protocol calls in-process, standing in for the core.
type fakeCaller struct {
	handle func(req *protocol.Request) *protocol.Response
	err    error
}

func (c *fakeCaller) Call(req *protocol.Request) (*protocol.Response, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.handle(req), nil
}

// fakeTokens accepts a single known token for a single account.
type fakeTokens struct {
	token     string
	accountID uuid.UUID
	createErr error
}

func (s *fakeTokens) CreateToken(_ context.Context, accountID uuid.UUID) (auth.TokenCreatedResult, error) {
	if s.createErr != nil {
		return auth.TokenCreatedResult{}, s.createErr
	}
	return auth.TokenCreatedResult{
		Token:     s.token,
		AccountID: accountID,
		Expiry:    time.Now().UTC().Add(time.Hour),
	}, nil
}

func (s *fakeTokens) ValidateToken(_ context.Context, token string, accountID uuid.UUID) (bool, error) {
	return token == s.token && accountID == s.accountID, nil
}

func successCaller(t *testing.T, body any) *fakeCaller {
	t.Helper()
	return &fakeCaller{handle: func(req *protocol.Request) *protocol.Response {
		resp, err := protocol.NewResponse(req, body)
		if err != nil {
			t.Fatalf("build response: %v", err)
		}
		return resp
	}}
}

func errorCaller(errorType, message string) *fakeCaller {
	return &fakeCaller{handle: func(req *protocol.Request) *protocol.Response {
		return protocol.NewErrorResponse(req, protocol.ServerError{
			ErrorType:    errorType,
			ErrorMessage: message,
		})
	}}
}

func doRequest(t *testing.T, g *Gateway, method, target, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) protocol.ServerError {
	t.Helper()
	var serverErr protocol.ServerError
	if err := json.NewDecoder(rec.Body).Decode(&serverErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return serverErr
}

func TestCreateAccountIssuesToken(t *testing.T) {
	accountID := uuid.New()
	tokens := &fakeTokens{token: "issued-token", accountID: accountID}
	g := New(successCaller(t, ledger.AccountCreatedResult{
		AccountID: accountID,
		Timestamp: time.Now().UTC(),
	}), tokens)

	rec := doRequest(t, g, http.MethodPost, "/account", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp CreateAccountResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccountID != accountID {
		t.Fatalf("account id = %s, want %s", resp.AccountID, accountID)
	}
	if resp.Token != "issued-token" {
		t.Fatalf("token = %q", resp.Token)
	}
}

func TestCreateAccountRejectsBearerAuth(t *testing.T) {
	g := New(successCaller(t, ledger.AccountCreatedResult{}), &fakeTokens{})

	rec := doRequest(t, g, http.MethodPost, "/account", "some-token", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetAccountRequiresToken(t *testing.T) {
	accountID := uuid.New()
	g := New(successCaller(t, ledger.Account{AccountID: accountID}), &fakeTokens{
		token:     "good",
		accountID: accountID,
	})

	rec := doRequest(t, g, http.MethodGet, "/account/"+accountID.String(), "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doRequest(t, g, http.MethodGet, "/account/"+accountID.String(), "bad", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doRequest(t, g, http.MethodGet, "/account/"+accountID.String(), "good", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, body = %s", rec.Code, rec.Body)
	}

	var account ledger.Account
	if err := json.NewDecoder(rec.Body).Decode(&account); err != nil {
		t.Fatalf("decode account: %v", err)
	}
	if account.AccountID != accountID {
		t.Fatalf("account id = %s, want %s", account.AccountID, accountID)
	}
}

func TestGetAccountRejectsMalformedID(t *testing.T) {
	g := New(successCaller(t, ledger.Account{}), &fakeTokens{})

	rec := doRequest(t, g, http.MethodGet, "/account/not-a-uuid", "good", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetAccountForwardsServerError(t *testing.T) {
	accountID := uuid.New()
	g := New(errorCaller("ACCOUNT_DOES_NOT_EXIST", "account does not exist"), &fakeTokens{
		token:     "good",
		accountID: accountID,
	})

	rec := doRequest(t, g, http.MethodGet, "/account/"+accountID.String(), "good", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if serverErr := decodeError(t, rec); serverErr.ErrorType != "ACCOUNT_DOES_NOT_EXIST" {
		t.Fatalf("error type = %s", serverErr.ErrorType)
	}
}

func TestGetAccountReportsUnreachableCore(t *testing.T) {
	accountID := uuid.New()
	g := New(&fakeCaller{err: fmt.Errorf("receive response: timeout")}, &fakeTokens{
		token:     "good",
		accountID: accountID,
	})

	rec := doRequest(t, g, http.MethodGet, "/account/"+accountID.String(), "good", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestGetTransactionsRequiresDateParams(t *testing.T) {
	accountID := uuid.New()
	g := New(successCaller(t, []ledger.Transaction{}), &fakeTokens{
		token:     "good",
		accountID: accountID,
	})
	base := "/account/" + accountID.String() + "/transactions"

	for _, target := range []string{
		base,
		base + "?start=2026-01-01",
		base + "?start=2026-01-01&end=January",
	} {
		rec := doRequest(t, g, http.MethodGet, target, "good", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s status = %d, want %d", target, rec.Code, http.StatusBadRequest)
		}
	}

	rec := doRequest(t, g, http.MethodGet, base+"?start=2026-01-01&end=2026-01-31", "good", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp GetTransactionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccountID != accountID {
		t.Fatalf("account id = %s, want %s", resp.AccountID, accountID)
	}
}

func TestGetTransactionsSendsRequestedRange(t *testing.T) {
	accountID := uuid.New()

	var sent protocol.GetTransactionsRequest
	caller := &fakeCaller{handle: func(req *protocol.Request) *protocol.Response {
		if err := req.DecodeBody(&sent); err != nil {
			return protocol.NewErrorResponse(req, protocol.ServerError{ErrorType: "UNKNOWN", ErrorMessage: err.Error()})
		}
		resp, err := protocol.NewResponse(req, []ledger.Transaction{})
		if err != nil {
			return nil
		}
		return resp
	}}
	g := New(caller, &fakeTokens{token: "good", accountID: accountID})

	target := "/account/" + accountID.String() + "/transactions?start=2026-01-01&end=2026-01-31"
	rec := doRequest(t, g, http.MethodGet, target, "good", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	if sent.AccountID != accountID {
		t.Fatalf("sent account id = %s, want %s", sent.AccountID, accountID)
	}
	wantStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !sent.TimeRangeStart.Equal(wantStart) {
		t.Fatalf("sent start = %s, want %s", sent.TimeRangeStart, wantStart)
	}
	wantEnd := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	if !sent.TimeRangeEnd.Equal(wantEnd) {
		t.Fatalf("sent end = %s, want %s", sent.TimeRangeEnd, wantEnd)
	}
}

func TestCreateTransactionSendsAuthenticatedSender(t *testing.T) {
	accountID := uuid.New()
	receiverID := uuid.New()

	var sent protocol.CreateTransactionRequest
	caller := &fakeCaller{handle: func(req *protocol.Request) *protocol.Response {
		if err := req.DecodeBody(&sent); err != nil {
			return protocol.NewErrorResponse(req, protocol.ServerError{ErrorType: "UNKNOWN", ErrorMessage: err.Error()})
		}
		resp, err := protocol.NewResponse(req, ledger.TransactionReceipt{
			TransactionID:      uuid.New(),
			Timestamp:          time.Now().UTC(),
			SenderAccountID:    sent.SenderID,
			ReceiverAccountID:  sent.ReceiverID,
			SenderAccountFunds: 60,
		})
		if err != nil {
			return nil
		}
		return resp
	}}
	g := New(caller, &fakeTokens{token: "good", accountID: accountID})

	body := fmt.Sprintf(`{"receiver":"%s","amount":40}`, receiverID)
	rec := doRequest(t, g, http.MethodPost, "/account/"+accountID.String()+"/transaction", "good", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	if sent.SenderID != accountID {
		t.Fatalf("sent sender = %s, want the authenticated account %s", sent.SenderID, accountID)
	}
	if sent.ReceiverID != receiverID {
		t.Fatalf("sent receiver = %s, want %s", sent.ReceiverID, receiverID)
	}
	if sent.Amount != 40 {
		t.Fatalf("sent amount = %d, want 40", sent.Amount)
	}

	var receipt ledger.TransactionReceipt
	if err := json.NewDecoder(rec.Body).Decode(&receipt); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if receipt.SenderAccountFunds != 60 {
		t.Fatalf("receipt sender funds = %d, want 60", receipt.SenderAccountFunds)
	}
}

func TestCreateTransactionRejectsMalformedBody(t *testing.T) {
	accountID := uuid.New()
	g := New(successCaller(t, ledger.TransactionReceipt{}), &fakeTokens{
		token:     "good",
		accountID: accountID,
	})

	rec := doRequest(t, g, http.MethodPost, "/account/"+accountID.String()+"/transaction", "good", "{broken")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetTransaction(t *testing.T) {
	accountID := uuid.New()
	transactionID := uuid.New()
	g := New(successCaller(t, ledger.Transaction{
		TransactionID:   transactionID,
		SenderAccountID: accountID,
		Amount:          10,
	}), &fakeTokens{token: "good", accountID: accountID})

	target := "/account/" + accountID.String() + "/transaction/" + transactionID.String()
	rec := doRequest(t, g, http.MethodGet, target, "good", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var tx ledger.Transaction
	if err := json.NewDecoder(rec.Body).Decode(&tx); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	if tx.TransactionID != transactionID {
		t.Fatalf("transaction id = %s, want %s", tx.TransactionID, transactionID)
	}

	rec = doRequest(t, g, http.MethodGet, "/account/"+accountID.String()+"/transaction/nope", "good", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed id status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
