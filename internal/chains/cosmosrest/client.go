package cosmosrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/rs/zerolog"

	"github.com/pushchain/universal-faucet/internal/ferrors"
)

// Client is a plain net/http REST client over the Cosmos LCD endpoints
// named in spec §6, following the http.Get + encoding/json.Decode style of
// cmd/puniversald/query.go rather than a resty/retryablehttp dependency.
type Client struct {
	baseURL string
	hc      *http.Client
	cdc     *codec.ProtoCodec
	log     zerolog.Logger
	timeout time.Duration
}

// NewClient builds a Client against baseURL (e.g. "http://localhost:1317").
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		cdc:     newProtoCodec(),
		log:     log.With().Str("component", "cosmosrest").Logger(),
		timeout: timeout,
	}
}

// nodeInfoResponse is the minimal shape of /cosmos/base/tendermint/v1beta1/node_info
// this health check needs.
type nodeInfoResponse struct {
	DefaultNodeInfo struct {
		Network string `json:"network"`
	} `json:"default_node_info"`
}

// IsHealthy reports liveness via a bounded node_info call, the same role
// evmrpc.Client.IsHealthy's eth_blockNumber call plays for the EVM side
// (§12's "IsHealthy()-style checks for the EVM and Cosmos clients").
func (c *Client) IsHealthy(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var info nodeInfoResponse
	if err := c.getJSON(healthCtx, "/cosmos/base/tendermint/v1beta1/node_info", &info); err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "cosmos health check")
	}
	return nil
}

// errorResponse mirrors the grpc-gateway error envelope Cosmos REST
// endpoints return on non-200 status.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "build cosmos rest request")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "cosmos rest request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return ferrors.New(ferrors.CodeInternal, fmt.Sprintf("cosmos rest %s returned %d: %s", path, resp.StatusCode, errResp.Message))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "decode cosmos rest response")
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "marshal cosmos rest request body")
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "build cosmos rest request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "cosmos rest request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return ferrors.New(ferrors.CodeInternal, fmt.Sprintf("cosmos rest %s returned %d: %s", path, resp.StatusCode, errResp.Message))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "decode cosmos rest response")
	}
	return nil
}
