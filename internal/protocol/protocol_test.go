package protocol

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestAssignsFreshMessageID(t *testing.T) {
	first, err := NewRequest(TypeGetAccounts, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	second, err := NewRequest(TypeGetAccounts, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	if first.V != Version {
		t.Fatalf("request version = %d, want %d", first.V, Version)
	}
	if first.MessageID == uuid.Nil {
		t.Fatal("message id is nil")
	}
	if first.MessageID == second.MessageID {
		t.Fatal("two requests share a message id")
	}
	if len(first.Body) != 0 {
		t.Fatalf("nullary request carries a body: %s", first.Body)
	}
}

func TestNewRequestRejectsUnknownType(t *testing.T) {
	if _, err := NewRequest(RequestType("Bogus"), nil); err == nil {
		t.Fatal("expected error for unknown request type")
	}
}

func TestRequestRoundTrip(t *testing.T) {
	accountID := uuid.New()
	req, err := NewRequest(TypeGetAccount, GetAccountRequest{AccountID: accountID})
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	data, err := req.Encode()
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	decoded, err := DecodeRequest(data)
	if err != nil {
		t.Fatalf("decode request: %v", err)
	}

	if decoded.MessageID != req.MessageID {
		t.Fatalf("decoded message id = %s, want %s", decoded.MessageID, req.MessageID)
	}
	if decoded.Type != TypeGetAccount {
		t.Fatalf("decoded type = %s, want %s", decoded.Type, TypeGetAccount)
	}

	var body GetAccountRequest
	if err := decoded.DecodeBody(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.AccountID != accountID {
		t.Fatalf("decoded account id = %s, want %s", body.AccountID, accountID)
	}
}

func TestDecodeRequestRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{not json`},
		{"wrong version", `{"v":2,"message_id":"` + uuid.NewString() + `","type":"GetAccounts"}`},
		{"missing version", `{"message_id":"` + uuid.NewString() + `","type":"GetAccounts"}`},
		{"unknown type", `{"v":1,"message_id":"` + uuid.NewString() + `","type":"DeleteAccount"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeRequest([]byte(tc.data)); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

func TestResponseTypeAnswersRequestType(t *testing.T) {
	if got := TypeCreateTransaction.Response(); got != ResponseType("CreateTransactionResponse") {
		t.Fatalf("response type = %s", got)
	}
}

func TestResponseEchoesMessageID(t *testing.T) {
	req, err := NewRequest(TypeGetAccounts, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	resp, err := NewResponse(req, []string{"a", "b"})
	if err != nil {
		t.Fatalf("new response: %v", err)
	}
	if resp.MessageID != req.MessageID {
		t.Fatalf("response message id = %s, want %s", resp.MessageID, req.MessageID)
	}
	if resp.Type != ResponseType("GetAccountsResponse") {
		t.Fatalf("response type = %s", resp.Type)
	}

	data, err := resp.Encode()
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	decoded, err := DecodeResponse(data)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}

	var body []string
	if err := decoded.DecodeBody(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 2 || body[0] != "a" {
		t.Fatalf("decoded body = %v", body)
	}
}

func TestErrorResponseSurfacesServerError(t *testing.T) {
	req, err := NewRequest(TypeGetAccount, GetAccountRequest{AccountID: uuid.New()})
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	resp := NewErrorResponse(req, ServerError{
		ErrorType:    "ACCOUNT_DOES_NOT_EXIST",
		ErrorMessage: "account does not exist",
	})

	data, err := resp.Encode()
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	decoded, err := DecodeResponse(data)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}

	var body struct{}
	err = decoded.DecodeBody(&body)
	var serverErr ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("decode body error = %v, want ServerError", err)
	}
	if serverErr.ErrorType != "ACCOUNT_DOES_NOT_EXIST" {
		t.Fatalf("error type = %s", serverErr.ErrorType)
	}
}

func TestDecodeResponseRejectsVersionMismatch(t *testing.T) {
	data := `{"v":0,"message_id":"` + uuid.NewString() + `","type":"GetAccountsResponse"}`
	if _, err := DecodeResponse([]byte(data)); err == nil {
		t.Fatal("expected decode error")
	}
}
