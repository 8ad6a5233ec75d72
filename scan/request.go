package scan

import (
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	MinPort = 1
	MaxPort = 65535
)

var (
	ErrInvalidTarget      = errors.New("invalid target")
	ErrInvalidRange       = errors.New("invalid port range")
	ErrInvalidConcurrency = errors.New("invalid concurrency")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrProbeFailure       = errors.New("probe failure")
)

// Request describes a single scan. It must not be modified while a scan using it is running.
type Request struct {
	Target      net.IP
	Start       int
	End         int
	Concurrency int
	Timeout     time.Duration
}

// ParseTarget parses an IPv4 or IPv6 address. Hostnames are not resolved.
func ParseTarget(target string) (net.IP, error) {
	ip := net.ParseIP(strings.TrimSpace(target))
	if ip == nil {
		return nil, errors.Wrapf(ErrInvalidTarget, "'%s' is not an IP address", target)
	}
	return ip, nil
}

func (r Request) Validate() error {

	if r.Target == nil {
		return errors.Wrap(ErrInvalidTarget, "no target specified")
	}

	if r.Start < MinPort || r.Start > MaxPort {
		return errors.Wrapf(ErrInvalidRange, "start port %d outside %d-%d", r.Start, MinPort, MaxPort)
	}

	if r.End < MinPort || r.End > MaxPort {
		return errors.Wrapf(ErrInvalidRange, "end port %d outside %d-%d", r.End, MinPort, MaxPort)
	}

	if r.Start > r.End {
		return errors.Wrapf(ErrInvalidRange, "%d-%d", r.Start, r.End)
	}

	if r.Concurrency < 1 {
		return errors.Wrapf(ErrInvalidConcurrency, "%d, must be at least 1", r.Concurrency)
	}

	if r.Timeout <= 0 {
		return errors.Wrapf(ErrInvalidTimeout, "%s, must be positive", r.Timeout)
	}

	return nil
}

// Size returns the number of ports in the requested range.
func (r Request) Size() int {
	return r.End - r.Start + 1
}
