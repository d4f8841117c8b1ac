// Package gateway bridges REST clients to the core datagram protocol. It is
// strictly a protocol client: every operation becomes a request envelope
// sent through the shared call helper, guarded by a bearer-token check.
package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"coincore/internal/auth"
	apperrors "coincore/internal/platform/errors"
	"coincore/internal/protocol"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Caller is the synchronous protocol call primitive the gateway depends on.
type Caller interface {
	Call(req *protocol.Request) (*protocol.Response, error)
}

// TokenService issues and validates bearer tokens for gateway clients.
type TokenService interface {
	CreateToken(ctx context.Context, accountID uuid.UUID) (auth.TokenCreatedResult, error)
	ValidateToken(ctx context.Context, token string, accountID uuid.UUID) (bool, error)
}

// Gateway translates REST requests into protocol calls.
type Gateway struct {
	client Caller
	tokens TokenService
}

// New creates a gateway backed by the given protocol client and token
// service.
func New(client Caller, tokens TokenService) *Gateway {
	return &Gateway{client: client, tokens: tokens}
}

// Router builds the HTTP routing table.
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", g.handleRoot)
	r.Post("/account", g.handleCreateAccount)
	r.Route("/account/{accountID}", func(r chi.Router) {
		r.Get("/", g.handleGetAccount)
		r.Get("/transactions", g.handleGetTransactions)
		r.Post("/transaction", g.handleCreateTransaction)
		r.Get("/transaction/{transactionID}", g.handleGetTransaction)
	})
	return r
}

func (g *Gateway) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<h1>coincore gateway</h1>"))
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	value := r.Header.Get("Authorization")
	if value == "" {
		return "", false
	}
	token, ok := strings.CutPrefix(value, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func gatewayError(message string) protocol.ServerError {
	return protocol.ServerError{
		ErrorType:    string(apperrors.CodeGatewayError),
		ErrorMessage: message,
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Printf("write response: %v", err)
	}
}

// requireToken validates the caller's bearer token for accountID. It writes
// the error response and returns false when the request must not proceed.
func (g *Gateway) requireToken(w http.ResponseWriter, r *http.Request, accountID uuid.UUID) bool {
	token, ok := bearerToken(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, gatewayError("token required"))
		return false
	}
	valid, err := g.tokens.ValidateToken(r.Context(), token, accountID)
	if err != nil || !valid {
		if err != nil {
			log.Printf("token validation for %s: %v", accountID, err)
		}
		writeJSON(w, http.StatusUnauthorized, gatewayError("invalid token"))
		return false
	}
	return true
}

// callCore sends a request envelope and decodes the success payload into
// out. A carried ServerError is forwarded to the client verbatim.
func (g *Gateway) callCore(w http.ResponseWriter, req *protocol.Request, out any) bool {
	resp, err := g.client.Call(req)
	if err != nil {
		log.Printf("core call %s: %v", req.Type, err)
		writeJSON(w, http.StatusInternalServerError, gatewayError("no response from core"))
		return false
	}
	if err := resp.DecodeBody(out); err != nil {
		var serverErr protocol.ServerError
		if ok := errorAs(err, &serverErr); ok {
			writeJSON(w, http.StatusInternalServerError, serverErr)
			return false
		}
		log.Printf("decode %s response: %v", req.Type, err)
		writeJSON(w, http.StatusInternalServerError, gatewayError("unexpected response from core"))
		return false
	}
	return true
}

func errorAs(err error, target *protocol.ServerError) bool {
	serverErr, ok := err.(protocol.ServerError)
	if ok {
		*target = serverErr
	}
	return ok
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	value, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.UUID{}, false
	}
	return value, true
}
