package libvirt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/digitalocean/go-libvirt"
	"github.com/digitalocean/go-libvirt/socket/dialers"
)

// Endpoint identifies one libvirt daemon instance: the URI bound during the
// handshake plus the Unix socket the dialer connects to.
type Endpoint struct {
	URI    string
	Socket string
}

// DefaultEndpoints returns the standard fallback order: the system-wide
// daemon first, then the per-user session daemon.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{URI: "qemu:///system", Socket: "/var/run/libvirt/libvirt-sock"},
		{URI: "qemu:///session", Socket: sessionSocketPath()},
	}
}

// sessionSocketPath returns the per-user libvirt socket location.
func sessionSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "libvirt", "libvirt-sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/var/run/libvirt/libvirt-sock"
	}
	return filepath.Join(home, ".cache", "libvirt", "libvirt-sock")
}

// Attempt records one failed connection attempt.
type Attempt struct {
	Endpoint Endpoint
	Err      error
}

// ConnectError is returned when every candidate endpoint has failed.
type ConnectError struct {
	Attempts []Attempt
}

func (e *ConnectError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Endpoint.URI, a.Err))
	}
	return fmt.Sprintf("all %d libvirt endpoints failed: %s", len(e.Attempts), strings.Join(parts, "; "))
}

// Client wraps a go-libvirt connection and owns its lifetime.
type Client struct {
	libvirt  *libvirt.Libvirt
	endpoint Endpoint
}

// ConnectEndpoint opens a connection to a single endpoint. The endpoint is
// tried exactly once; there are no retries. If timeout is zero, defaults to
// 5 seconds.
func ConnectEndpoint(ep Endpoint, timeout time.Duration) (*Client, error) {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	dialer := dialers.NewLocal(
		dialers.WithSocket(ep.Socket),
		dialers.WithLocalTimeout(timeout),
	)

	l := libvirt.NewWithDialer(dialer)
	if err := l.ConnectToURI(libvirt.ConnectURI(ep.URI)); err != nil {
		return nil, fmt.Errorf("failed to connect to libvirt at %s (%s): %w", ep.URI, ep.Socket, err)
	}

	return &Client{libvirt: l, endpoint: ep}, nil
}

// connectEndpoint is the per-endpoint dial used by ConnectFirst. Tests
// substitute it to exercise the fallback order without a daemon.
var connectEndpoint = ConnectEndpoint

// ConnectFirst tries each endpoint in order and returns a Client bound to
// the first one that succeeds. Endpoints after the first success are never
// attempted. When every endpoint fails it returns a *ConnectError listing
// each attempt and its cause.
func ConnectFirst(endpoints []Endpoint, timeout time.Duration) (*Client, error) {
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints()
	}

	attempts := make([]Attempt, 0, len(endpoints))
	for _, ep := range endpoints {
		client, err := connectEndpoint(ep, timeout)
		if err == nil {
			return client, nil
		}
		attempts = append(attempts, Attempt{Endpoint: ep, Err: err})
	}

	return nil, &ConnectError{Attempts: attempts}
}

// ConnectFirstWithContext is ConnectFirst with context support for
// cancellation while dialing.
func ConnectFirstWithContext(ctx context.Context, endpoints []Endpoint, timeout time.Duration) (*Client, error) {
	type result struct {
		client *Client
		err    error
	}
	resultCh := make(chan result, 1)

	go func() {
		c, err := ConnectFirst(endpoints, timeout)
		resultCh <- result{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		// The dial may still complete after cancellation; close the late
		// client so the connection does not leak.
		go func() {
			if res := <-resultCh; res.client != nil {
				_ = res.client.Close()
			}
		}()
		return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
	case res := <-resultCh:
		return res.client, res.err
	}
}

// Endpoint returns the endpoint this client is bound to.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Close releases the connection. It is safe to call Close multiple times;
// only the first call disconnects.
func (c *Client) Close() error {
	if c.libvirt == nil {
		return nil
	}

	l := c.libvirt
	c.libvirt = nil
	if err := l.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect from libvirt: %w", err)
	}

	return nil
}

// Libvirt returns the underlying go-libvirt client for direct API access.
// All domain operations fail once the client has been closed.
func (c *Client) Libvirt() *libvirt.Libvirt {
	return c.libvirt
}

// Ping verifies the connection is still alive by calling a simple libvirt API.
func (c *Client) Ping() error {
	if c.libvirt == nil {
		return fmt.Errorf("client not connected")
	}

	if _, err := c.libvirt.ConnectGetLibVersion(); err != nil {
		return fmt.Errorf("libvirt connection is dead: %w", err)
	}

	return nil
}
