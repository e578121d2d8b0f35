package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ConnectorID はウォレットコネクターを識別する型付きIDです。
type ConnectorID string

// ConnectorLocalKey は秘密鍵を直接保持するコネクターのIDです。
const ConnectorLocalKey ConnectorID = "local-key"

var (
	ErrConnectorNotFound = errors.New("wallet connector not found")
	ErrNotConnected      = errors.New("wallet not connected")
	ErrUnsupportedChain  = errors.New("chain is not supported by the wallet configuration")
)

// Account は接続済みウォレットのアカウントで、トランザクションへの署名を担います。
type Account interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Connector はウォレットへの接続手段です。
type Connector interface {
	ID() ConnectorID
	Name() string
	Connect(ctx context.Context) (Account, error)
}

// Session はアプリケーション側から見たウォレット接続状態です。
// 接続状態とチェーンの変更はすべてこのインターフェースを通して行います。
type Session interface {
	Connectors() []Connector
	Connect(ctx context.Context, id ConnectorID) error
	Disconnect()
	IsConnected() bool
	Address() (common.Address, bool)
	ChainID() uint64
	SwitchChain(ctx context.Context, chainID uint64) error
	// Account は署名可能なアカウントを返します。false はウォレットクライアントが未準備であることを示します。
	Account() (Account, bool)
}
