package cosmosrest

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/pushchain/universal-faucet/internal/ferrors"
)

type simulateRequest struct {
	TxBytes string `json:"tx_bytes"`
}

type gasInfoJSON struct {
	GasUsed string `json:"gas_used"`
}

type simulateResponse struct {
	GasInfo gasInfoJSON `json:"gas_info"`
}

// Simulate calls /cosmos/tx/v1beta1/simulate to estimate gas before
// broadcast.
func (c *Client) Simulate(ctx context.Context, txBytes []byte) (gasUsed uint64, err error) {
	var resp simulateResponse
	req := simulateRequest{TxBytes: base64.StdEncoding.EncodeToString(txBytes)}
	if err := c.postJSON(ctx, "/cosmos/tx/v1beta1/simulate", req, &resp); err != nil {
		return 0, err
	}
	return parseUintOrZero(resp.GasInfo.GasUsed), nil
}

type broadcastRequest struct {
	TxBytes string `json:"tx_bytes"`
	Mode    string `json:"mode"`
}

type txResponseJSON struct {
	TxHash  string `json:"txhash"`
	Code    int    `json:"code"`
	RawLog  string `json:"raw_log"`
	GasUsed string `json:"gas_used"`
}

type broadcastResponse struct {
	TxResponse txResponseJSON `json:"tx_response"`
}

// BroadcastResult is the outcome of a /cosmos/tx/v1beta1/txs broadcast.
type BroadcastResult struct {
	TxHash  string
	Code    int
	RawLog  string
	GasUsed uint64
}

// Broadcast submits txBytes with BROADCAST_MODE_SYNC, per spec §6.
func (c *Client) Broadcast(ctx context.Context, txBytes []byte) (BroadcastResult, error) {
	var resp broadcastResponse
	req := broadcastRequest{
		TxBytes: base64.StdEncoding.EncodeToString(txBytes),
		Mode:    "BROADCAST_MODE_SYNC",
	}
	if err := c.postJSON(ctx, "/cosmos/tx/v1beta1/txs", req, &resp); err != nil {
		return BroadcastResult{}, err
	}

	result := BroadcastResult{
		TxHash:  resp.TxResponse.TxHash,
		Code:    resp.TxResponse.Code,
		RawLog:  resp.TxResponse.RawLog,
		GasUsed: parseUintOrZero(resp.TxResponse.GasUsed),
	}
	if result.Code != 0 {
		return result, ClassifyBroadcastCode(result.Code, result.RawLog)
	}
	return result, nil
}

// ClassifyBroadcastCode maps the ABCI response code / raw_log to the §7
// taxonomy. Sequence mismatch is code 32 in cosmos-sdk's sdkerrors
// registry; signature-verification failure is code 4 (ErrUnauthorized) or
// 8 (ErrInvalidPubKey) depending on SDK version, hence the raw_log
// substring check as a fallback. Exported so the gRPC broadcast path
// (internal/chains/cosmosgrpc) classifies failures the same way.
func ClassifyBroadcastCode(code int, rawLog string) error {
	lower := strings.ToLower(rawLog)
	switch {
	case code == 32 || strings.Contains(lower, "account sequence mismatch"):
		return ferrors.New(ferrors.CodeNonceDrift, rawLog).WithContext("abciCode", code)
	case strings.Contains(lower, "signature verification failed") || strings.Contains(lower, "invalid pubkey"):
		return ferrors.New(ferrors.CodeSignatureRejected, rawLog).WithContext("abciCode", code)
	case strings.Contains(lower, "insufficient funds") || strings.Contains(lower, "insufficient fee"):
		return ferrors.New(ferrors.CodeOperatorUnderfund, rawLog).WithContext("abciCode", code)
	default:
		return ferrors.New(ferrors.CodeChainReverted, rawLog).WithContext("abciCode", code)
	}
}

func parseUintOrZero(s string) uint64 {
	var v uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return v
		}
		v = v*10 + uint64(r-'0')
	}
	return v
}
