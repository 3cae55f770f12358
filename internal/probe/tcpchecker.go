package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// TCPProber succeeds when a TCP handshake to host:port completes.
type TCPProber struct {
	Dialer *net.Dialer
}

func NewTCPProber(timeout time.Duration) *TCPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TCPProber{Dialer: &net.Dialer{Timeout: timeout}}
}

// SplitTarget splits a configured "host:port" entry on ':' and removes the
// stray quotes naive config splitting leaves behind: one leading quote on the
// host and one trailing quote on the port, plus a quote hugging either side
// of the colon, so both "10.0.0.5:22" and "10.0.0.5":"22" yield 10.0.0.5 / 22.
func SplitTarget(identity string) (host, port string) {
	parts := strings.Split(identity, ":")
	host = parts[0]
	if len(parts) > 1 {
		port = parts[1]
	}
	host = strings.TrimPrefix(host, `"`)
	port = strings.TrimSuffix(port, `"`)
	if len(parts) > 1 {
		host = strings.TrimSuffix(host, `"`)
		port = strings.TrimPrefix(port, `"`)
	}
	return host, port
}

// ParsePort accepts a decimal TCP port in 1..65535.
func ParsePort(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse port %q: %w", s, err)
	}
	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("port %d out of range", n)
	}
	return n, nil
}

func (c *TCPProber) Probe(ctx context.Context, target string) Outcome {
	host, rawPort := SplitTarget(target)
	port, err := ParsePort(rawPort)
	if err != nil {
		return Outcome{Result: Unreachable, Reason: err.Error()}
	}

	start := time.Now()
	conn, err := c.Dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	latency := time.Since(start)
	if err != nil {
		return Outcome{Result: Unreachable, Latency: latency, Reason: err.Error()}
	}
	_ = conn.Close()
	return Outcome{Result: Reachable, Latency: latency, Reason: "connected"}
}
