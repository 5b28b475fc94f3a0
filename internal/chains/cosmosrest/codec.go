// Package cosmosrest implements the Cosmos REST interface from spec §6:
// account/balance queries, tx simulation and broadcast, and SIGN_MODE_DIRECT
// TxBody/AuthInfo/SignDoc assembly. Structured after the plain net/http +
// encoding/json REST client style of cmd/puniversald/query.go (no resty),
// and the client-context/codec setup of authz/client_context.go.
package cosmosrest

import (
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/std"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// newProtoCodec builds the ProtoCodec used to marshal TxBody, AuthInfo,
// SignDoc and TxRaw, the same interface-registry setup
// authz/client_context.go's CreateClientContext uses, extended with the
// bank module's interfaces since this service only ever sends MsgSend.
func newProtoCodec() *codec.ProtoCodec {
	registry := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(registry)
	cryptocodec.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	return codec.NewProtoCodec(registry)
}
