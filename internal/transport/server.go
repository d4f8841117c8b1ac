// Package transport carries protocol envelopes over local unix datagram
// sockets: a strictly sequential dispatch loop on the server side and a
// synchronous call helper on the client side.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"coincore/internal/protocol"
)

const (
	// DefaultPollInterval bounds each blocking receive so the loop can
	// re-check for shutdown. It does not pace requests.
	DefaultPollInterval = time.Second

	// maxDatagramSize bounds a single encoded envelope.
	maxDatagramSize = 1 << 20

	serverSendBufferSize = 4 << 20
	serverRecvBufferSize = 1 << 20
)

// Handler answers one decoded request. A nil response means no datagram is
// sent back; the caller's timeout is the only recovery signal.
type Handler interface {
	Handle(ctx context.Context, req *protocol.Request) *protocol.Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *protocol.Request) *protocol.Response

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, req *protocol.Request) *protocol.Response {
	return f(ctx, req)
}

// Server owns the well-known service socket and processes exactly one
// request at a time. Mutual exclusion over the store follows from this
// sequential dispatch; there is no internal parallelism.
type Server struct {
	socketPath   string
	pollInterval time.Duration
	handler      Handler
}

// NewServer creates a dispatch server listening at socketPath. A zero
// pollInterval selects DefaultPollInterval.
func NewServer(socketPath string, pollInterval time.Duration, handler Handler) *Server {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Server{
		socketPath:   socketPath,
		pollInterval: pollInterval,
		handler:      handler,
	}
}

// Serve binds the socket and runs the receive loop until ctx is cancelled.
// Cancellation is cooperative: the current iteration always completes, then
// the socket is closed and unlinked. Serve never retries a send or receive;
// each iteration is independent.
func (s *Server) Serve(ctx context.Context) error {
	if s.handler == nil {
		return fmt.Errorf("handler is required")
	}

	// A previous unclean shutdown can leave the socket file behind.
	if _, err := os.Stat(s.socketPath); err == nil {
		log.Printf("removing stale socket %s", s.socketPath)
		if err := os.Remove(s.socketPath); err != nil {
			return fmt.Errorf("remove stale socket: %w", err)
		}
	}

	addr, err := net.ResolveUnixAddr("unixgram", s.socketPath)
	if err != nil {
		return fmt.Errorf("resolve socket address: %w", err)
	}
	conn, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		return fmt.Errorf("bind socket: %w", err)
	}
	defer func() {
		_ = conn.Close()
		_ = os.Remove(s.socketPath)
	}()

	if err := conn.SetWriteBuffer(serverSendBufferSize); err != nil {
		return fmt.Errorf("set send buffer: %w", err)
	}
	if err := conn.SetReadBuffer(serverRecvBufferSize); err != nil {
		return fmt.Errorf("set receive buffer: %w", err)
	}

	log.Printf("listening for messages on %s", s.socketPath)

	buf := make([]byte, maxDatagramSize)
	for {
		if ctx.Err() != nil {
			return nil
		}

		if err := conn.SetReadDeadline(time.Now().Add(s.pollInterval)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}
		n, clientAddr, err := conn.ReadFromUnix(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive datagram: %w", err)
		}

		req, err := protocol.DecodeRequest(buf[:n])
		if err != nil {
			// Undecodable datagrams get no response at all.
			log.Printf("dropping datagram: %v", err)
			continue
		}

		resp := s.handler.Handle(ctx, req)
		if resp == nil {
			continue
		}

		data, err := resp.Encode()
		if err != nil {
			log.Printf("encode response: %v", err)
			continue
		}
		if clientAddr == nil || clientAddr.Name == "" {
			log.Printf("request %s has no return address", req.MessageID)
			continue
		}
		if _, err := conn.WriteToUnix(data, clientAddr); err != nil {
			log.Printf("send response to %s: %v", clientAddr.Name, err)
		}
	}
}
