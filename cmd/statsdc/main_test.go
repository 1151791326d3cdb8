package main

import (
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farzadghanei/statsd-metrics/statsd"
)

func TestServerAddressDefaults(t *testing.T) {
	host, port := serverAddress(nil)
	assert.Equal(t, "localhost", host)
	assert.Equal(t, 8125, port)
}

func TestServerAddressHostOnly(t *testing.T) {
	host, port := serverAddress([]string{"stats.internal"})
	assert.Equal(t, "stats.internal", host)
	assert.Equal(t, 8125, port)
}

func TestServerAddressHostAndPort(t *testing.T) {
	host, port := serverAddress([]string{"stats.internal:9125"})
	assert.Equal(t, "stats.internal", host)
	assert.Equal(t, 9125, port)
}

func TestClientMethodsCoverSupportedVerbs(t *testing.T) {
	for _, name := range []string{"increment", "decrement", "timing", "gauge", "gauge_delta", "set"} {
		_, ok := clientMethods[name]
		assert.True(t, ok, "missing method %q", name)
	}
}

// TestParseLineExtractsValueAndRate covers the usage banner's own
// "decrement connections 2 0.6" example: the parsed value and rate must be
// the literal tokens from the line, not defaults.
func TestParseLineExtractsValueAndRate(t *testing.T) {
	name, value, rate := parseLine([]string{"connections", "2", "0.6"})
	assert.Equal(t, "connections", name)
	assert.Equal(t, "2", value)
	assert.Equal(t, 0.6, rate)
}

func TestParseLineDefaultsRateWhenOmitted(t *testing.T) {
	name, value, rate := parseLine([]string{"login"})
	assert.Equal(t, "login", name)
	assert.Equal(t, "", value)
	assert.Equal(t, 1.0, rate)
}

// TestDispatchUsesParsedValue exercises the usage banner's own "decrement
// connections 2" example end-to-end: it must decrement by 2, not silently
// fall back to a bare -1. Rate is left at its default (1) here so the send
// is deterministic; rate threading itself is covered by
// TestParseLineExtractsValueAndRate.
func TestDispatchUsesParsedValue(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer conn.Close()

	addr := conn.LocalAddr().(*net.UDPAddr)
	client, err := statsd.NewClient(addr.IP.String(), addr.Port, "")
	require.NoError(t, err)
	defer client.Close()

	stdinR, stdinW, err := os.Pipe()
	require.NoError(t, err)
	_, err = stdinW.WriteString("decrement connections 2\n")
	require.NoError(t, err)
	require.NoError(t, stdinW.Close())

	_, stdoutW, err := os.Pipe()
	require.NoError(t, err)
	_, stderrW, err := os.Pipe()
	require.NoError(t, err)
	defer stdoutW.Close()
	defer stderrW.Close()

	dispatch(client, stdinR, stdoutW, stderrW)

	buf := make([]byte, 2048)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, "connections:-2|c", string(buf[:n]))
}
