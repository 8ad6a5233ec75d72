package scan

import (
	"net"
	"time"
)

// PortResult is the outcome for a single port. Service is empty when the port is closed
// or is not in the catalog.
type PortResult struct {
	Port    int
	Open    bool
	Service string
	State   PortState
}

func (r PortResult) ServiceLabel() string {
	if r.Service == "" {
		return UnknownService
	}
	return r.Service
}

func (r PortResult) Status() string {
	if r.Open {
		return "open"
	}
	return "closed"
}

// Report holds one result per requested port, sorted by port.
type Report struct {
	Target  net.IP
	Start   int
	End     int
	Results []PortResult
	Elapsed time.Duration
}

func (r *Report) OpenCount() int {
	count := 0
	for _, result := range r.Results {
		if result.Open {
			count++
		}
	}
	return count
}

func (r *Report) OpenPorts() []PortResult {
	open := []PortResult{}
	for _, result := range r.Results {
		if result.Open {
			open = append(open, result)
		}
	}
	return open
}

// PortsPerSecond returns the scan throughput, or 0 if no time elapsed.
func (r *Report) PortsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(len(r.Results)) / r.Elapsed.Seconds()
}
