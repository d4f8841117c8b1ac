// Package protocol defines the versioned, correlation-ID-tagged request and
// response envelopes exchanged between clients and the core dispatch loop,
// and their JSON wire encoding.
//
// Domain failures travel inside normal response envelopes as ServerError
// values; only undecodable or version-mismatched buffers are treated as
// absent envelopes.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Version is the wire protocol version. Envelopes carrying any other
// version fail to decode.
const Version = 1

// RequestType discriminates the closed set of request variants.
type RequestType string

const (
	TypeCreateNewAccount  RequestType = "CreateNewAccount"
	TypeGetAccount        RequestType = "GetAccount"
	TypeGetAccounts       RequestType = "GetAccounts"
	TypeGetTransactions   RequestType = "GetTransactions"
	TypeGetTransaction    RequestType = "GetTransaction"
	TypeCreateTransaction RequestType = "CreateTransaction"
)

// ResponseType discriminates the closed set of response variants. Each
// request type has exactly one corresponding response type.
type ResponseType string

// Response returns the response type answering this request type.
func (t RequestType) Response() ResponseType {
	return ResponseType(string(t) + "Response")
}

func (t RequestType) valid() bool {
	switch t {
	case TypeCreateNewAccount, TypeGetAccount, TypeGetAccounts,
		TypeGetTransactions, TypeGetTransaction, TypeCreateTransaction:
		return true
	}
	return false
}

// ServerError is the wire form of a failed operation: a stable string
// discriminant plus a human-readable message. The original typed error is
// not reconstructed across the process boundary.
type ServerError struct {
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}

// Error implements the error interface.
func (e ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorType, e.ErrorMessage)
}

// Request is the versioned request envelope. Body carries the encoded
// payload for the parameterised variants and is empty for the nullary ones.
type Request struct {
	V         int             `json:"v"`
	MessageID uuid.UUID       `json:"message_id"`
	Type      RequestType     `json:"type"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// NewRequest builds a request envelope with a fresh correlation ID. Pass a
// nil body for the nullary variants.
func NewRequest(requestType RequestType, body any) (*Request, error) {
	if !requestType.valid() {
		return nil, fmt.Errorf("unknown request type %q", requestType)
	}
	req := &Request{
		V:         Version,
		MessageID: uuid.New(),
		Type:      requestType,
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		req.Body = data
	}
	return req, nil
}

// Encode serialises the request envelope.
func (r *Request) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return data, nil
}

// DecodeBody unpacks the request payload into the given variant struct.
func (r *Request) DecodeBody(into any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("request body is empty")
	}
	if err := json.Unmarshal(r.Body, into); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// DecodeRequest parses a request envelope from wire bytes. A malformed
// buffer, a version mismatch, or an unknown variant yields an error; the
// caller treats that as "no envelope".
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if req.V != Version {
		return nil, fmt.Errorf("unexpected message version %d", req.V)
	}
	if !req.Type.valid() {
		return nil, fmt.Errorf("unknown request type %q", req.Type)
	}
	return &req, nil
}

// Response is the versioned response envelope. MessageID always equals the
// MessageID of the request it answers. Exactly one of Body and Error is set.
type Response struct {
	V         int             `json:"v"`
	MessageID uuid.UUID       `json:"message_id"`
	Type      ResponseType    `json:"type"`
	Body      json.RawMessage `json:"body,omitempty"`
	Error     *ServerError    `json:"error,omitempty"`
}

// NewResponse builds a success response answering req.
func NewResponse(req *Request, body any) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode response body: %w", err)
	}
	return &Response{
		V:         Version,
		MessageID: req.MessageID,
		Type:      req.Type.Response(),
		Body:      data,
	}, nil
}

// NewErrorResponse builds an error response answering req.
func NewErrorResponse(req *Request, serverErr ServerError) *Response {
	return &Response{
		V:         Version,
		MessageID: req.MessageID,
		Type:      req.Type.Response(),
		Error:     &serverErr,
	}
}

// Encode serialises the response envelope.
func (r *Response) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return data, nil
}

// DecodeBody unpacks the response payload into the given variant struct.
// It surfaces the carried ServerError if the operation failed.
func (r *Response) DecodeBody(into any) error {
	if r.Error != nil {
		return *r.Error
	}
	if len(r.Body) == 0 {
		return fmt.Errorf("response body is empty")
	}
	if err := json.Unmarshal(r.Body, into); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// DecodeResponse parses a response envelope from wire bytes, applying the
// same version check as DecodeRequest.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.V != Version {
		return nil, fmt.Errorf("unexpected message version %d", resp.V)
	}
	return &resp, nil
}
