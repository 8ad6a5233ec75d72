package scan

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

type PortState uint8

const (
	PortClosed PortState = iota
	PortOpen
	PortTimedOut
)

func (s PortState) String() string {
	switch s {
	case PortOpen:
		return "open"
	case PortTimedOut:
		return "timed out"
	default:
		return "closed"
	}
}

// Dialer is satisfied by *net.Dialer and by the context-aware dialers of golang.org/x/net/proxy.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Prober performs a single connection attempt against one port.
type Prober interface {
	Probe(ctx context.Context, ip net.IP, port int, timeout time.Duration) (PortState, error)
}

type ConnectProber struct {
	dialer Dialer
}

func NewConnectProber() *ConnectProber {
	return &ConnectProber{
		dialer: &net.Dialer{},
	}
}

// NewProxyProber creates a prober which connects through the proxy at rawURL, e.g. socks5://127.0.0.1:1080
func NewProxyProber(rawURL string) (*ConnectProber, error) {

	proxyURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid proxy URL '%s'", rawURL)
	}

	dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create proxy dialer for '%s'", rawURL)
	}

	contextDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, errors.Errorf("proxy scheme '%s' does not support timeouts", proxyURL.Scheme)
	}

	return &ConnectProber{
		dialer: contextDialer,
	}, nil
}

// Probe makes exactly one connection attempt. The timeout starts when the dial starts.
func (p *ConnectProber) Probe(ctx context.Context, ip net.IP, port int, timeout time.Duration) (PortState, error) {

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := p.dialer.DialContext(ctx, "tcp", net.JoinHostPort(ip.String(), strconv.Itoa(port)))
	if err != nil {
		return classifyDialError(err)
	}
	_ = conn.Close()
	return PortOpen, nil
}

func classifyDialError(err error) (PortState, error) {

	var netErr net.Error

	switch {
	case errors.Is(err, context.Canceled):
		return PortClosed, err
	case errors.Is(err, context.DeadlineExceeded):
		return PortTimedOut, nil
	case errors.As(err, &netErr) && netErr.Timeout():
		return PortTimedOut, nil
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return PortClosed, nil
	case strings.Contains(err.Error(), "refused"):
		// proxies report refusals as plain text
		return PortClosed, nil
	}

	return PortClosed, errors.Wrap(ErrProbeFailure, err.Error())
}
