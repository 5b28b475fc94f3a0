package ratelimit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg Config) *Limiter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ratelimit.db")
	l, err := Open(path, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestCheckAllowsUnderLimit(t *testing.T) {
	l := newTestLimiter(t, Config{AddrWindow: time.Hour, AddrLimit: 1, IPWindow: time.Hour, IPLimit: 5})
	d, err := l.Check(AddrKey("0xabc"), IPKey("1.2.3.4"), time.Now())
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestRecordThenCheckBlocksSecondDispense(t *testing.T) {
	l := newTestLimiter(t, Config{AddrWindow: time.Hour, AddrLimit: 1, IPWindow: time.Hour, IPLimit: 5})
	now := time.Now()
	addrKey, ipKey := AddrKey("0xabc"), IPKey("1.2.3.4")

	require.NoError(t, l.Record(addrKey, ipKey, now))

	d, err := l.Check(addrKey, IPKey("9.9.9.9"), now.Add(time.Minute))
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.True(t, d.RetryAt.After(now))
}

func TestCheckAllowsAfterWindowElapses(t *testing.T) {
	l := newTestLimiter(t, Config{AddrWindow: time.Minute, AddrLimit: 1, IPWindow: time.Minute, IPLimit: 1})
	now := time.Now()
	addrKey, ipKey := AddrKey("0xabc"), IPKey("1.2.3.4")

	require.NoError(t, l.Record(addrKey, ipKey, now))

	d, err := l.Check(addrKey, ipKey, now.Add(2*time.Minute))
	require.NoError(t, err)
	require.True(t, d.Allowed)
}
