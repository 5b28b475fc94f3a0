package balance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/universal-faucet/internal/address"
	"github.com/pushchain/universal-faucet/internal/chains/cosmosrest"
	"github.com/pushchain/universal-faucet/internal/config"
)

func TestReadCosmosMissingDenomDefaultsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balances":[{"denom":"upc","amount":"500"}]}`))
	}))
	defer srv.Close()

	cosmosClient := cosmosrest.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	o := New(nil, cosmosClient, "cosmos")

	recipient := address.Recipient{
		Kind:   address.KindCosmos,
		Hex20:  common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Bech32: "cosmos1abc",
	}
	tokens := []config.TokenDescriptor{
		{Symbol: "PC", CosmosDenom: "upc"},
		{Symbol: "ERC", CosmosDenom: "", Erc20Contract: "0x2222222222222222222222222222222222222222"},
	}

	readings, err := o.Read(context.Background(), recipient, tokens)
	require.NoError(t, err)
	require.Equal(t, "500", readings["PC"].Current.String())
	require.Equal(t, "0", readings["ERC"].Current.String())
	require.False(t, readings["ERC"].Unavailable)
}

func TestReadInvalidRecipientErrors(t *testing.T) {
	o := New(nil, nil, "cosmos")
	_, err := o.Read(context.Background(), address.Recipient{Kind: address.KindInvalid}, nil)
	require.Error(t, err)
}
