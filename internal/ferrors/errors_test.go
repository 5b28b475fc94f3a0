package ferrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultSeverity(t *testing.T) {
	e := New(CodeSignatureRejected, "bad sig")
	require.Equal(t, SeverityAlert, e.Severity)
	require.False(t, e.IsRetryable())
}

func TestNonceDriftRetryable(t *testing.T) {
	e := New(CodeNonceDrift, "sequence mismatch")
	require.True(t, e.IsRetryable())
	require.Equal(t, SeverityInternal, e.Severity)
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	e := Wrap(CodeBalanceQueryFail, cause, "all endpoints unreachable")
	require.ErrorIs(t, e, cause)
	require.Contains(t, e.Error(), "dial tcp")
}

func TestWithContext(t *testing.T) {
	e := New(CodeRateLimited, "too many requests").WithContext("retryAt", 1234)
	require.Equal(t, 1234, e.Context["retryAt"])
}

func TestCodeOf(t *testing.T) {
	e := New(CodeBusy, "mutex timeout")
	require.Equal(t, CodeBusy, CodeOf(e))
	require.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
