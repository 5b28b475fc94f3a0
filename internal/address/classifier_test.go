package address

import (
	"testing"

	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestClassifyEvm(t *testing.T) {
	c := NewClassifier("cosmos")
	r := c.Classify("0x0000000000000000000000000000000000000001")
	require.Equal(t, KindEVM, r.Kind)
}

func TestClassifyCosmos(t *testing.T) {
	c := NewClassifier("cosmos")
	addr := common.HexToAddress("0x0000000000000000000000000000000000000001")
	bech, err := bech32.ConvertAndEncode("cosmos", addr.Bytes())
	require.NoError(t, err)

	r := c.Classify(bech)
	require.Equal(t, KindCosmos, r.Kind)
	require.Equal(t, addr, r.Hex20)
}

func TestClassifyWrongHrpIsInvalid(t *testing.T) {
	c := NewClassifier("cosmos")
	addr := common.HexToAddress("0x0000000000000000000000000000000000000001")
	bech, err := bech32.ConvertAndEncode("osmo", addr.Bytes())
	require.NoError(t, err)

	r := c.Classify(bech)
	require.Equal(t, KindInvalid, r.Kind)
}

func TestClassifyInvalid(t *testing.T) {
	c := NewClassifier("cosmos")
	r := c.Classify("not-an-address")
	require.Equal(t, KindInvalid, r.Kind)
}

func TestClassifyRejectsBadChecksum(t *testing.T) {
	c := NewClassifier("cosmos")
	// Mixed-case with an intentionally wrong checksum.
	r := c.Classify("0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.Equal(t, KindInvalid, r.Kind)
}

func TestClassifyAcceptsAllLowerAndUpper(t *testing.T) {
	c := NewClassifier("cosmos")
	lower := c.Classify("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.Equal(t, KindEVM, lower.Kind)
	upper := c.Classify("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED")
	require.Equal(t, KindEVM, upper.Kind)
}

func TestRoundTripHex20ToBech32(t *testing.T) {
	c := NewClassifier("cosmos")
	addr := common.HexToAddress("0x00000000000000000000000000000000000042")
	bech, err := c.ToBech32(addr, "cosmos")
	require.NoError(t, err)

	r := c.Classify(bech)
	require.Equal(t, addr, c.ToHex20(r))
}
