package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"coincore/internal/protocol"
)

const (
	// DefaultCallTimeout bounds the wait for a single reply datagram.
	DefaultCallTimeout = time.Second

	clientRecvBufferSize = 4 << 20
)

// ErrCorrelationMismatch reports a reply whose message_id does not match
// the request. Callers treat it the same as no response.
var ErrCorrelationMismatch = errors.New("response correlation id does not match request")

// Client is the synchronous call primitive shared by every protocol client.
// Ephemeral socket names derive from the process id plus a monotonic
// reading against the client's construction time, so concurrent callers and
// repeated calls never collide.
type Client struct {
	serverPath string
	socketDir  string
	timeout    time.Duration
	pid        int
	start      time.Time
}

// NewClient creates a call helper targeting the service at serverPath.
// Ephemeral sockets are created under socketDir (empty selects the system
// temp directory); a zero timeout selects DefaultCallTimeout.
func NewClient(serverPath, socketDir string, timeout time.Duration) *Client {
	if socketDir == "" {
		socketDir = os.TempDir()
	}
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Client{
		serverPath: serverPath,
		socketDir:  socketDir,
		timeout:    timeout,
		pid:        os.Getpid(),
		start:      time.Now(),
	}
}

func (c *Client) ephemeralSocketPath() string {
	elapsed := time.Since(c.start).Nanoseconds()
	return filepath.Join(c.socketDir, fmt.Sprintf("coincore-client.%d.%d", c.pid, elapsed))
}

// Call sends one request envelope and waits for exactly one reply datagram
// or a timeout. The ephemeral socket is always released, whatever the
// outcome. Call performs no retries; callers needing resilience loop
// externally and must treat a timeout as "effect unknown".
func (c *Client) Call(req *protocol.Request) (*protocol.Response, error) {
	clientPath := c.ephemeralSocketPath()

	laddr, err := net.ResolveUnixAddr("unixgram", clientPath)
	if err != nil {
		return nil, fmt.Errorf("resolve client address: %w", err)
	}
	raddr, err := net.ResolveUnixAddr("unixgram", c.serverPath)
	if err != nil {
		return nil, fmt.Errorf("resolve server address: %w", err)
	}

	conn, err := net.DialUnix("unixgram", laddr, raddr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.serverPath, err)
	}
	defer func() {
		_ = conn.Close()
		_ = os.Remove(clientPath)
	}()

	if err := conn.SetReadBuffer(clientRecvBufferSize); err != nil {
		return nil, fmt.Errorf("set receive buffer: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	data, err := req.Encode()
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	buf := make([]byte, maxDatagramSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("receive response: %w", err)
	}

	resp, err := protocol.DecodeResponse(buf[:n])
	if err != nil {
		return nil, err
	}
	if resp.MessageID != req.MessageID {
		return nil, ErrCorrelationMismatch
	}
	return resp, nil
}
