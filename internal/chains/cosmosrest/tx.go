package cosmosrest

import (
	"cosmossdk.io/math"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/pushchain/universal-faucet/internal/ferrors"
	"github.com/pushchain/universal-faucet/internal/keys"
)

// BankTransfer is one {denom, amount} line item of a Cosmos MsgSend batch.
type BankTransfer struct {
	Denom  string
	Amount math.Int
}

// BuildAndSignMsgSendBatch assembles one TxBody carrying one MsgSend per
// transfer, an AuthInfo with the ethermint-family pubkey Any under
// pubkeyTypeURL, a SignDoc, signs it with km, and returns the marshaled
// TxRaw bytes ready for broadcast. Atomicity across transfers comes from
// the transaction being single-signed, per spec §4.7.
func (c *Client) BuildAndSignMsgSendBatch(
	km *keys.Manager,
	pubkeyTypeURL string,
	fromBech32, toBech32 string,
	transfers []BankTransfer,
	chainID string,
	accountNumber, sequence uint64,
	feeDenom, feeAmount string,
	gasLimit uint64,
) ([]byte, error) {
	body := &txtypes.TxBody{Messages: make([]*codectypes.Any, 0, len(transfers))}
	for _, t := range transfers {
		msg := &banktypes.MsgSend{
			FromAddress: fromBech32,
			ToAddress:   toBech32,
			Amount:      sdk.Coins{sdk.NewCoin(t.Denom, t.Amount)},
		}
		anyMsg, err := codectypes.NewAnyWithValue(msg)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.CodeInternal, err, "pack MsgSend into Any")
		}
		body.Messages = append(body.Messages, anyMsg)
	}
	pubkeyAny := km.PubKeyAny(pubkeyTypeURL)

	authInfo := &txtypes.AuthInfo{
		SignerInfos: []*txtypes.SignerInfo{{
			PublicKey: pubkeyAny,
			ModeInfo: &txtypes.ModeInfo{
				Sum: &txtypes.ModeInfo_Single_{
					Single: &txtypes.ModeInfo_Single{Mode: signing.SignMode_SIGN_MODE_DIRECT},
				},
			},
			Sequence: sequence,
		}},
		Fee: &txtypes.Fee{
			Amount:   sdk.NewCoins(sdk.NewCoin(feeDenom, parseIntOrZero(feeAmount))),
			GasLimit: gasLimit,
		},
	}

	cdc := newProtoCodec()
	bodyBytes, err := cdc.Marshal(body)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInternal, err, "marshal tx body")
	}
	authInfoBytes, err := cdc.Marshal(authInfo)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInternal, err, "marshal auth info")
	}

	signDoc := &txtypes.SignDoc{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		ChainId:       chainID,
		AccountNumber: accountNumber,
	}
	signDocBytes, err := cdc.Marshal(signDoc)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInternal, err, "marshal sign doc")
	}

	sig, err := km.SignCosmosTx(signDocBytes)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeSignatureRejected, err, "sign cosmos tx")
	}

	txRaw := &txtypes.TxRaw{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		Signatures:    [][]byte{sig},
	}
	txBytes, err := cdc.Marshal(txRaw)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInternal, err, "marshal tx raw")
	}
	return txBytes, nil
}

func parseIntOrZero(s string) math.Int {
	i, ok := math.NewIntFromString(s)
	if !ok {
		return math.ZeroInt()
	}
	return i
}
