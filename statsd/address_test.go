package statsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressCacheResolve(t *testing.T) {
	a, err := newAddressCache("127.0.0.1", 8125)
	require.NoError(t, err)

	resolved, err := a.resolve()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8125", resolved)

	// cached: a second call returns the same string without re-resolving.
	again, err := a.resolve()
	require.NoError(t, err)
	assert.Equal(t, resolved, again)
}

func TestAddressCacheSetHostInvalidatesCache(t *testing.T) {
	a, err := newAddressCache("127.0.0.1", 8125)
	require.NoError(t, err)
	_, err = a.resolve()
	require.NoError(t, err)

	a.setHost("127.0.0.2")
	resolved, err := a.resolve()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.2:8125", resolved)
}

func TestAddressCacheInvalidPort(t *testing.T) {
	_, err := newAddressCache("127.0.0.1", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = newAddressCache("127.0.0.1", 70000)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddressCacheSnapshotIndependence(t *testing.T) {
	a, err := newAddressCache("127.0.0.1", 8125)
	require.NoError(t, err)
	snap := a.snapshot()

	a.setHost("127.0.0.2")
	assert.Equal(t, "127.0.0.1", snap.getHost())
	assert.Equal(t, "127.0.0.2", a.getHost())
}
