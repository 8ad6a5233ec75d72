package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/liamg/portscout/report"
	"github.com/liamg/portscout/scan"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	target, startPort, endPort = "127.0.0.1", 1, 1024
	concurrency, timeoutMS = 200, 1000
	quiet, noColor, debug = false, true, false
	outputPath, proxyURL = "", ""
}

func TestBuildRequestDefaults(t *testing.T) {
	resetFlags(t)

	req, err := buildRequest()
	require.Nil(t, err)
	assert.Equal(t, "127.0.0.1", req.Target.String())
	assert.Equal(t, 1, req.Start)
	assert.Equal(t, 1024, req.End)
	assert.Equal(t, 200, req.Concurrency)
	assert.Equal(t, int64(1000), req.Timeout.Milliseconds())
}

func TestBuildRequestInvalidTarget(t *testing.T) {
	resetFlags(t)
	target = "not-an-ip"

	_, err := buildRequest()
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, scan.ErrInvalidTarget))
}

func TestBuildRequestInvalidRange(t *testing.T) {
	resetFlags(t)
	startPort, endPort = 100, 1

	_, err := buildRequest()
	assert.True(t, errors.Is(err, scan.ErrInvalidRange))

	resetFlags(t)
	timeoutMS = 0
	_, err = buildRequest()
	assert.True(t, errors.Is(err, scan.ErrInvalidTimeout))
}

func TestClampConcurrency(t *testing.T) {
	assert.Equal(t, 1000, clampConcurrency(5000))
	assert.Equal(t, 1000, clampConcurrency(1000))
	assert.Equal(t, 1, clampConcurrency(1))
}

func TestRunExportsReport(t *testing.T) {
	resetFlags(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen on loopback: %s", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	startPort, endPort = port, port
	outputPath = filepath.Join(t.TempDir(), "scan.json")

	buf := &bytes.Buffer{}
	require.Nil(t, run(context.Background(), buf))

	assert.Contains(t, buf.String(), "Scanned: 1 ports, Found: 1 open")

	data, err := os.ReadFile(outputPath)
	require.Nil(t, err)

	var records []report.Record
	require.Nil(t, json.Unmarshal(data, &records))
	assert.Equal(t, []report.Record{
		{Port: port, Status: "open", ServiceGuess: scan.ServiceLabel(port)},
	}, records)
	assert.Contains(t, buf.String(), strconv.Itoa(port))
}

func TestRunReportsWriteFailureAfterRendering(t *testing.T) {
	resetFlags(t)
	startPort, endPort = 1, 1
	timeoutMS = 100
	outputPath = filepath.Join(t.TempDir(), "missing", "scan.json")

	buf := &bytes.Buffer{}
	err := run(context.Background(), buf)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, report.ErrWriteFailed))
	assert.Contains(t, buf.String(), "Scanned: 1 ports")
}

func TestCreateProber(t *testing.T) {
	prober, err := createProber("")
	require.Nil(t, err)
	assert.IsType(t, &scan.ConnectProber{}, prober)

	_, err = createProber("socks5://127.0.0.1:1080")
	assert.Nil(t, err)

	_, err = createProber("gopher://127.0.0.1:70")
	assert.NotNil(t, err)
}
