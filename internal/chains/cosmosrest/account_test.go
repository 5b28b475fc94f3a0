package cosmosrest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestGetAccountBaseAccountShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"account":{"@type":"/cosmos.auth.v1beta1.BaseAccount","address":"cosmos1abc","account_number":"7","sequence":"3"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	acc, err := c.GetAccount(context.Background(), "cosmos1abc")
	require.NoError(t, err)
	require.Equal(t, uint64(7), acc.AccountNumber)
	require.Equal(t, uint64(3), acc.Sequence)
}

func TestGetAccountEthAccountShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"account":{"@type":"/cosmos.evm.types.v1.EthAccount","base_account":{"address":"cosmos1abc","account_number":"9","sequence":"1"},"code_hash":"abc"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	acc, err := c.GetAccount(context.Background(), "cosmos1abc")
	require.NoError(t, err)
	require.Equal(t, uint64(9), acc.AccountNumber)
	require.Equal(t, uint64(1), acc.Sequence)
}
