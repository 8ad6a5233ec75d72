package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Engine runs one probe per port through a shared Gate and reports every port exactly once.
type Engine struct {
	prober Prober

	// OnResult, if set, is called once per port as results arrive. Calls are never concurrent.
	OnResult func(PortResult)
}

var _ Scanner = (*Engine)(nil)

func NewEngine(prober Prober) *Engine {
	if prober == nil {
		prober = NewConnectProber()
	}
	return &Engine{
		prober: prober,
	}
}

func (e *Engine) Scan(ctx context.Context, req Request) (*Report, error) {

	if err := req.Validate(); err != nil {
		return nil, err
	}

	gate := NewGate(req.Concurrency)
	ports := NewPortIterator(req.Start, req.End)

	wg := &sync.WaitGroup{}

	resultChan := make(chan PortResult)
	results := make([]PortResult, 0, ports.Total())
	doneChan := make(chan struct{})

	go func() {
		for result := range resultChan {
			results = append(results, result)
			if e.OnResult != nil {
				e.OnResult(result)
			}
		}
		close(doneChan)
	}()

	logrus.Debugf("Scanning %d ports on %s with %d workers...", ports.Total(), req.Target, gate.Capacity())

	startTime := time.Now()

	for {
		port, err := ports.Next()
		if err != nil {
			break
		}

		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			resultChan <- e.scanPort(ctx, gate, req, port)
		}(port)
	}

	wg.Wait()
	close(resultChan)
	<-doneChan

	sort.Slice(results, func(i, j int) bool {
		return results[i].Port < results[j].Port
	})

	report := &Report{
		Target:  req.Target,
		Start:   req.Start,
		End:     req.End,
		Results: results,
		Elapsed: time.Since(startTime),
	}

	logrus.Debugf("Scan of %s finished in %s, peak concurrency %d", req.Target, report.Elapsed, gate.Peak())

	return report, nil
}

// scanPort always returns a result for port, even if the probe panics.
func (e *Engine) scanPort(ctx context.Context, gate *Gate, req Request, port int) (result PortResult) {

	result = PortResult{
		Port:  port,
		State: PortClosed,
	}

	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("port", port).Debugf("Probe panicked: %v", r)
			result = PortResult{
				Port:  port,
				State: PortClosed,
			}
		}
	}()

	if err := gate.Acquire(ctx); err != nil {
		logrus.WithField("port", port).Debugf("Port not probed: %s", err)
		return result
	}
	defer gate.Release()

	state, err := e.prober.Probe(ctx, req.Target, port, req.Timeout)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"port":  port,
			"state": state,
		}).Debugf("Probe failed: %s", err)
	}

	if err != nil && state == PortOpen {
		state = PortClosed
	}

	result.State = state
	if state == PortOpen {
		result.Open = true
		result.Service, _ = LookupService(port)
	}

	return result
}
